package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/logger"
	"bookstore-backend/internal/metrics"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/storage"
	"bookstore-backend/internal/store/memstore"
)

var fixedNow = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc  *Services
	deps *Deps
	disk *storage.LocalDisk
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)
	d := &Deps{
		Store:              memstore.New(),
		Disk:               disk,
		Tokens:             auth.NewTokens("test-secret", time.Hour),
		Hasher:             auth.NewHasher(4),
		Log:                logger.Nop(),
		Metrics:            metrics.New(),
		Now:                func() time.Time { return fixedNow },
		AllowGuestCheckout: true,
	}
	return &fixture{svc: New(d), deps: d, disk: disk}
}

func sp(s string) *string { return &s }

// signup creates an account and returns the principal its token carries.
func (f *fixture) signup(t *testing.T, role models.Role, name, email string) *auth.Principal {
	t.Helper()
	sess, err := f.svc.Auth.Signup(context.Background(), role, SignupInput{Name: sp(name), Email: sp(email), Password: sp("pw")})
	require.NoError(t, err)
	p, err := f.deps.Tokens.Verify(sess.Token)
	require.NoError(t, err)
	return p
}

func (f *fixture) item(t *testing.T, actor *auth.Principal, title string) *models.Item {
	t.Helper()
	it, err := f.svc.Catalog.Create(context.Background(), actor, ItemInput{
		Title:  sp(title),
		Author: sp("Author"),
		Genre:  sp("fiction"),
		Price:  sp("10"),
	})
	require.NoError(t, err)
	return it
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.As(err).Kind, err.Error())
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(" "+id.Hex()+" ", "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("nope", "itemId")
	assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, "itemId", apperr.As(err).Field)
}

func TestParseNumber(t *testing.T) {
	v, err := parseNumber(sp(" 12.5 "), "price")
	require.NoError(t, err)
	assert.Equal(t, 12.5, *v)

	v, err = parseNumber(sp(""), "price")
	require.NoError(t, err)
	assert.Nil(t, v)

	for _, bad := range []string{"abc", "NaN", "Inf"} {
		_, err = parseNumber(sp(bad), "price")
		assertKind(t, err, apperr.KindValidation)
	}
}

func TestSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Auth.Signup(ctx, models.RoleSeller, SignupInput{Name: sp(" Sam "), Email: sp("sam@x.io"), Password: sp("pw")})
	require.NoError(t, err)
	assert.Equal(t, "Sam", sess.Principal.Name)
	assert.NotEqual(t, "pw", sess.Principal.Password)

	p, err := f.deps.Tokens.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, p.Role)

	_, err = f.svc.Auth.Signup(ctx, models.RoleSeller, SignupInput{Name: sp("Other"), Email: sp("sam@x.io"), Password: sp("pw2")})
	assertKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Already have an account", apperr.As(err).Message)

	// same email, different role
	_, err = f.svc.Auth.Signup(ctx, models.RoleBuyer, SignupInput{Name: sp("Sam"), Email: sp("sam@x.io"), Password: sp("pw")})
	require.NoError(t, err)

	_, err = f.svc.Auth.Login(ctx, models.RoleSeller, "sam@x.io", "pw")
	require.NoError(t, err)

	_, err = f.svc.Auth.Login(ctx, models.RoleSeller, "sam@x.io", "wrong")
	assertKind(t, err, apperr.KindAuthentication)
	assert.Equal(t, "login fail", apperr.As(err).Message)

	_, err = f.svc.Auth.Login(ctx, models.RoleAdmin, "sam@x.io", "pw")
	assertKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "no user", apperr.As(err).Message)
}

func TestSignupMissingField(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Auth.Signup(context.Background(), models.RoleBuyer, SignupInput{Name: sp("A"), Password: sp("pw")})
	assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Missing required field: email", apperr.As(err).Message)
}

func TestAverageRating(t *testing.T) {
	rs := func(vals ...float64) []models.Review {
		out := make([]models.Review, 0, len(vals))
		for _, v := range vals {
			out = append(out, models.Review{Rating: v})
		}
		return out
	}
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.0, AverageRating(rs(5, 4, 3)))
	assert.Equal(t, 3.5, AverageRating(rs(5, 4, 3, 2)))
	assert.Equal(t, 4.7, AverageRating(rs(5, 5, 4)))
	assert.Equal(t, 1.5, AverageRating(rs(1, 2)))
}
