// Package service holds the business rules of the bookstore: who may change
// what, how orders are recorded and how ratings are aggregated. Handlers
// translate HTTP into calls on these types.
package service

import (
	"context"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/metrics"
	"bookstore-backend/internal/storage"
	"bookstore-backend/internal/store"
)

// Deps is built once at startup and shared by every service.
type Deps struct {
	Store   store.Store
	Disk    storage.Disk
	Tokens  *auth.Tokens
	Hasher  *auth.Hasher
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Now     func() time.Time

	AllowGuestCheckout bool
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Services groups the service types handed to the HTTP layer.
type Services struct {
	Auth     *AuthService
	Catalog  *CatalogService
	Orders   *OrderService
	Profiles *ProfileService
	Wishlist *WishlistService
	Admin    *AdminService
}

func New(d *Deps) *Services {
	return &Services{
		Auth:     &AuthService{d: d},
		Catalog:  &CatalogService{d: d},
		Orders:   &OrderService{d: d},
		Profiles: &ProfileService{d: d},
		Wishlist: &WishlistService{d: d},
		Admin:    &AdminService{d: d},
	}
}

// Upload is a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ParseID validates a hex object id taken from a path or body.
func ParseID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.ValidationField(field, "Invalid "+field)
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value.
func parseOptionalID(raw, field string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseNumber parses an optional numeric form value. Absent and empty values
// yield nil.
func parseNumber(raw *string, field string) (*float64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperr.ValidationField(field, field+" must be a number")
	}
	return &v, nil
}

// storeErr maps store sentinels onto API errors.
func storeErr(op string, err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict(op + ": already exists")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Store(op, err)
}

func (d *Deps) saveUpload(ctx context.Context, u *Upload) (string, error) {
	ref, err := storage.Save(ctx, d.Disk, u.Filename, u.Body, u.ContentType)
	if err != nil {
		return "", apperr.Store("save upload", err)
	}
	return ref, nil
}

// release deletes a stored file. Failures are logged and never returned.
func (d *Deps) release(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := storage.Release(ctx, d.Disk, ref); err != nil {
		d.Log.Warnw("release stored file", "ref", ref, "err", err)
	}
}
