package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

func TestEmailUniquePerRole(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreatePrincipal(ctx, models.RoleBuyer, &models.Principal{Name: "A", Email: "a@x.io"}))
	err := s.CreatePrincipal(ctx, models.RoleBuyer, &models.Principal{Name: "B", Email: "a@x.io"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// the same email may exist once per role
	require.NoError(t, s.CreatePrincipal(ctx, models.RoleSeller, &models.Principal{Name: "A", Email: "a@x.io"}))

	p, err := s.FindPrincipalByEmail(ctx, models.RoleSeller, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, p.Role)
}

func TestUpdatePrincipalDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := &models.Principal{Name: "A", Email: "a@x.io"}
	b := &models.Principal{Name: "B", Email: "b@x.io"}
	require.NoError(t, s.CreatePrincipal(ctx, models.RoleBuyer, a))
	require.NoError(t, s.CreatePrincipal(ctx, models.RoleBuyer, b))

	taken := "a@x.io"
	_, err := s.UpdatePrincipal(ctx, models.RoleBuyer, b.ID, models.PrincipalUpdate{Email: &taken})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	phone := "555"
	p, err := s.UpdatePrincipal(ctx, models.RoleBuyer, b.ID, models.PrincipalUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555", p.Phone)
	assert.Equal(t, "b@x.io", p.Email)
}

func TestListsAreNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateItem(ctx, &models.Item{Title: title, Genre: "g"}))
	}
	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, "first", items[2].Title)
}

func TestReturnedItemsAreDetached(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := &models.Item{Title: "t"}
	require.NoError(t, s.CreateItem(ctx, it))

	got, err := s.GetItem(ctx, it.ID)
	require.NoError(t, err)
	got.Title = "changed"
	got.Reviews = append(got.Reviews, models.Review{Rating: 1})

	again, err := s.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", again.Title)
	assert.Empty(t, again.Reviews)
}

func TestAppendReviewMissingItem(t *testing.T) {
	_, err := New().AppendReview(context.Background(), primitive.NewObjectID(), models.Review{Rating: 3}, func([]models.Review) float64 { return 0 })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWishlistPairUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	item, user := primitive.NewObjectID(), primitive.NewObjectID()

	require.NoError(t, s.AddWishlistItem(ctx, &models.WishlistItem{ItemID: item, UserID: user}))
	assert.ErrorIs(t, s.AddWishlistItem(ctx, &models.WishlistItem{ItemID: item, UserID: user}), store.ErrDuplicate)
	require.NoError(t, s.AddWishlistItem(ctx, &models.WishlistItem{ItemID: item, UserID: primitive.NewObjectID()}))

	require.NoError(t, s.RemoveWishlistItem(ctx, item, user))
	require.NoError(t, s.RemoveWishlistItem(ctx, item, user))

	mine, err := s.ListWishlistByUser(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	assert.ErrorIs(t, s.DeleteItem(ctx, primitive.NewObjectID()), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrder(ctx, primitive.NewObjectID()), store.ErrNotFound)
	assert.ErrorIs(t, s.DeletePrincipal(ctx, models.RoleAdmin, primitive.NewObjectID()), store.ErrNotFound)
}
