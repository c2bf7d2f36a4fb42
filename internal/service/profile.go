package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

type ProfileService struct {
	d *Deps
}

type ProfileInput struct {
	Name      *string
	Phone     *string
	Email     *string
	ImageLink *string
	Avatar    *Upload
}

// Lookup finds id among buyers, then sellers, then admins.
func (s *ProfileService) Lookup(ctx context.Context, id primitive.ObjectID) (*models.Principal, error) {
	for _, role := range models.Roles {
		p, err := s.d.Store.FindPrincipalByID(ctx, role, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, storeErr("find profile", err, "Not found")
		}
	}
	return nil, apperr.NotFound("Not found")
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, actor *auth.Principal) (*models.Principal, error) {
	if actor == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	p, err := s.d.Store.FindPrincipalByID(ctx, actor.Role, actor.ID)
	if err != nil {
		return nil, storeErr("find profile", err, "Profile not found")
	}
	return p, nil
}

// Update changes the fields present in in. A new image replaces the stored
// one; the old file is released on a best-effort basis.
func (s *ProfileService) Update(ctx context.Context, actor *auth.Principal, in ProfileInput) (*models.Principal, error) {
	cur, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}

	u := models.PrincipalUpdate{Name: in.Name, Phone: in.Phone, Email: in.Email}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, apperr.ValidationField("name", "name cannot be empty")
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) == "" {
		return nil, apperr.ValidationField("email", "email cannot be empty")
	}

	switch {
	case in.Avatar != nil:
		ref, err := s.d.saveUpload(ctx, in.Avatar)
		if err != nil {
			return nil, err
		}
		u.Image = &ref
	case in.ImageLink != nil:
		u.Image = in.ImageLink
	}

	p, err := s.d.Store.UpdatePrincipal(ctx, actor.Role, actor.ID, u)
	if err != nil {
		if in.Avatar != nil {
			s.d.release(ctx, *u.Image)
		}
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Email already in use")
		}
		return nil, storeErr("update profile", err, "Profile not found")
	}
	if u.Image != nil && *u.Image != cur.Image {
		s.d.release(ctx, cur.Image)
	}
	return p, nil
}
