package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSecret = "changeme"

type Config struct {
	Port    string
	AppEnv  string
	Origins []string

	StoreDriver string
	MongoURI    string
	MongoDB     string

	JWTSecret  string
	JWTTTL     time.Duration
	SaltRounds int

	UploadDir   string
	StorageDisk string
	MaxUploadMB int64
	S3          S3Config

	AllowGuestCheckout bool
}

type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(get("JWT_TTL", "168h"))
	if err != nil {
		return nil, err
	}
	rounds, err := strconv.Atoi(get("SALT_ROUNDS", "10"))
	if err != nil {
		return nil, err
	}
	maxMB, err := strconv.ParseInt(get("MAX_UPLOAD_MB", "20"), 10, 64)
	if err != nil {
		return nil, err
	}
	guest, err := strconv.ParseBool(get("ALLOW_GUEST_CHECKOUT", "true"))
	if err != nil {
		return nil, err
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = get("MONGO_URL", "mongodb://localhost:27017")
	}

	return &Config{
		Port:        get("PORT", "4000"),
		AppEnv:      get("APP_ENV", "development"),
		Origins:     splitList(get("CLIENT_ORIGINS", "http://localhost:5173,http://localhost:5174,http://localhost:3000")),
		StoreDriver: get("STORE_DRIVER", "mongo"),
		MongoURI:    mongoURI,
		MongoDB:     get("MONGO_DB", "bookstore"),
		JWTSecret:   get("JWT_SECRET", defaultSecret),
		JWTTTL:      ttl,
		SaltRounds:  rounds,
		UploadDir:   get("UPLOAD_DIR", "uploads"),
		StorageDisk: get("STORAGE_DISK", "local"),
		MaxUploadMB: maxMB,
		S3: S3Config{
			Bucket:   os.Getenv("S3_BUCKET"),
			Region:   get("S3_REGION", "us-east-1"),
			Key:      os.Getenv("S3_KEY"),
			Secret:   os.Getenv("S3_SECRET"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
		},
		AllowGuestCheckout: guest,
	}, nil
}

// DefaultSecret reports whether the signing secret was left at its fallback.
func (c *Config) DefaultSecret() bool { return c.JWTSecret == defaultSecret }

func (c *Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
