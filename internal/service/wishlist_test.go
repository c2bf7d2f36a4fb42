package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/models"
)

func TestWishlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bea := f.signup(t, models.RoleBuyer, "Bea", "bea@x.io")
	item := primitive.NewObjectID().Hex()

	w, err := f.svc.Wishlist.Add(ctx, bea, WishlistInput{ItemID: item, UserID: primitive.NewObjectID().Hex(), UserName: "x", Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, bea.ID, w.UserID)
	assert.Equal(t, "Bea", w.UserName)

	_, err = f.svc.Wishlist.Add(ctx, bea, WishlistInput{ItemID: item})
	assertKind(t, err, apperr.KindConflict)

	// anonymous callers name the wishlist owner in the body
	guest := primitive.NewObjectID()
	_, err = f.svc.Wishlist.Add(ctx, nil, WishlistInput{ItemID: item, UserID: guest.Hex()})
	require.NoError(t, err)
	_, err = f.svc.Wishlist.Add(ctx, nil, WishlistInput{ItemID: item})
	assertKind(t, err, apperr.KindValidation)

	all, err := f.svc.Wishlist.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.svc.Wishlist.Remove(ctx, bea, item, ""))
	require.NoError(t, f.svc.Wishlist.Remove(ctx, bea, item, ""))

	mine, err := f.svc.Wishlist.ListByUser(ctx, bea.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	theirs, err := f.svc.Wishlist.ListByUser(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
