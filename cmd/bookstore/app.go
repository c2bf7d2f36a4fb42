package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/config"
	"bookstore-backend/internal/handlers"
	"bookstore-backend/internal/logger"
	"bookstore-backend/internal/metrics"
	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/service"
	"bookstore-backend/internal/storage"
	"bookstore-backend/internal/store"
	"bookstore-backend/internal/store/memstore"
	"bookstore-backend/internal/store/mongostore"
)

type app struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	store  store.Store
	router *gin.Engine
}

func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Production())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store; data is lost on exit")
		return memstore.New(), nil
	case "mongo", "":
		log.Infow("connecting to mongo", "db", cfg.MongoDB)
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*app, error) {
	if cfg.DefaultSecret() {
		log.Warn("JWT_SECRET is not set; tokens are signed with the default secret")
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	disk, err := storage.Open(ctx, cfg)
	if err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("open storage: %w", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	m := metrics.New()
	svc := service.New(&service.Deps{
		Store:              st,
		Disk:               disk,
		Tokens:             tokens,
		Hasher:             auth.NewHasher(cfg.SaltRounds),
		Log:                log,
		Metrics:            m,
		AllowGuestCheckout: cfg.AllowGuestCheckout,
	})
	h := handlers.New(svc, disk, log)
	router := handlers.NewRouter(cfg, h, middleware.NewGate(tokens, log), m, log)

	return &app{cfg: cfg, log: log, store: st, router: router}, nil
}
