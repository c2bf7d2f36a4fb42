package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

type AuthService struct {
	d *Deps
}

type SignupInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Session is what signup and login hand back to the client.
type Session struct {
	Token     string
	Principal *models.Principal
}

const msgAccountExists = "Already have an account"

func (s *AuthService) Signup(ctx context.Context, role models.Role, in SignupInput) (*Session, error) {
	for _, f := range []struct {
		name string
		v    *string
	}{{"name", in.Name}, {"email", in.Email}, {"password", in.Password}} {
		if f.v == nil {
			return nil, apperr.ValidationField(f.name, "Missing required field: "+f.name)
		}
	}
	email := strings.TrimSpace(*in.Email)
	if email == "" || *in.Password == "" || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validation("Name, email and password cannot be empty")
	}

	_, err := s.d.Store.FindPrincipalByEmail(ctx, role, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict(msgAccountExists)
	case !errors.Is(err, store.ErrNotFound):
		return nil, storeErr("find account", err, "")
	}

	hash, err := s.d.Hasher.Hash(*in.Password)
	if err != nil {
		return nil, apperr.Store("hash password", err)
	}
	p := &models.Principal{Name: strings.TrimSpace(*in.Name), Email: email, Password: hash}
	if err := s.d.Store.CreatePrincipal(ctx, role, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict(msgAccountExists)
		}
		return nil, storeErr("create account", err, "")
	}
	s.d.Metrics.Signups.WithLabelValues(string(role)).Inc()
	s.d.Log.Infow("account created", "role", role, "id", p.ID.Hex())
	return s.session(p)
}

func (s *AuthService) Login(ctx context.Context, role models.Role, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password cannot be empty")
	}
	p, err := s.d.Store.FindPrincipalByEmail(ctx, role, email)
	if err != nil {
		return nil, storeErr("find account", err, "no user")
	}
	if !s.d.Hasher.Compare(p.Password, password) {
		return nil, apperr.Unauthenticated("login fail")
	}
	return s.session(p)
}

func (s *AuthService) session(p *models.Principal) (*Session, error) {
	tok, err := s.d.Tokens.Issue(p.ID, p.Role, p.Name, p.Email)
	if err != nil {
		return nil, apperr.Store("issue token", err)
	}
	return &Session{Token: tok, Principal: p}, nil
}

// AdminService backs the admin listing and account removal endpoints.
// Deleting an account leaves its items, orders and wishlist entries alone.
type AdminService struct {
	d *Deps
}

func (s *AdminService) Accounts(ctx context.Context, role models.Role) ([]models.Principal, error) {
	out, err := s.d.Store.ListPrincipals(ctx, role)
	if err != nil {
		return nil, storeErr("list accounts", err, "")
	}
	return out, nil
}

func (s *AdminService) DeleteAccount(ctx context.Context, role models.Role, id primitive.ObjectID) error {
	cur, err := s.d.Store.FindPrincipalByID(ctx, role, id)
	if err != nil {
		return storeErr("find account", err, "Account not found")
	}
	if err := s.d.Store.DeletePrincipal(ctx, role, id); err != nil {
		return storeErr("delete account", err, "Account not found")
	}
	s.d.release(ctx, cur.Image)
	s.d.Log.Infow("account deleted", "role", role, "id", id.Hex())
	return nil
}
