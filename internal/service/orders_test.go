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

func ip(n int) *int { return &n }

func orderFor(items ...LineItemInput) OrderInput {
	var total float64
	for _, li := range items {
		qty := 1
		if li.Qty != nil {
			qty = *li.Qty
		}
		total += li.Price * float64(qty)
	}
	return OrderInput{FlatNo: "12B", City: "Pune", State: "MH", Pincode: "411001", TotalAmount: total, Items: items}
}

func TestCreateOrderSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.signup(t, models.RoleSeller, "S", "s@x.io")
	buyer := f.signup(t, models.RoleBuyer, "Bea", "bea@x.io")
	it := f.item(t, seller, "Snapshot")

	in := orderFor(LineItemInput{BookID: it.ID.Hex(), Title: it.Title, Price: it.Price, Qty: ip(2)})
	in.SellerID = seller.ID.Hex()
	in.UserID = primitive.NewObjectID().Hex()
	in.UserName = "Spoofed"

	o, err := f.svc.Orders.Create(ctx, buyer, in)
	require.NoError(t, err)
	require.NotNil(t, o.UserID)
	assert.Equal(t, buyer.ID, *o.UserID)
	assert.Equal(t, "Bea", o.UserName)
	assert.Equal(t, "9/3/2024", o.BookingDate)
	assert.Equal(t, "16/3/2024", o.Delivery)
	assert.Equal(t, 20.0, o.TotalAmount)

	// later catalog edits do not reach the recorded line items
	_, err = f.svc.Catalog.Update(ctx, seller, it.ID, ItemInput{Title: sp("Renamed"), Price: sp("99")})
	require.NoError(t, err)

	mine, err := f.svc.Orders.ListByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Snapshot", mine[0].Items[0].Title)
	assert.Equal(t, 10.0, mine[0].Items[0].Price)
	assert.Equal(t, 2, mine[0].Items[0].Qty)

	sold, err := f.svc.Orders.ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Len(t, sold, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.signup(t, models.RoleBuyer, "Bea", "bea@x.io")

	_, err := f.svc.Orders.Create(ctx, buyer, OrderInput{})
	assertKind(t, err, apperr.KindValidation)

	_, err = f.svc.Orders.Create(ctx, buyer, orderFor(LineItemInput{BookID: "bad", Price: 1}))
	assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, "items[0].bookId", apperr.As(err).Field)

	for _, qty := range []int{0, -1} {
		_, err = f.svc.Orders.Create(ctx, buyer, orderFor(LineItemInput{BookID: primitive.NewObjectID().Hex(), Price: 1, Qty: ip(qty)}))
		assertKind(t, err, apperr.KindValidation)
		assert.Equal(t, "items[0].qty", apperr.As(err).Field)
	}

	o, err := f.svc.Orders.Create(ctx, buyer, orderFor(LineItemInput{BookID: primitive.NewObjectID().Hex(), Price: 4}))
	require.NoError(t, err)
	assert.Equal(t, 1, o.Items[0].Qty)
}

func TestGuestCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guest := primitive.NewObjectID()

	in := orderFor(LineItemInput{BookID: primitive.NewObjectID().Hex(), Price: 3})
	in.UserID = guest.Hex()
	in.UserName = "Guest"
	o, err := f.svc.Orders.Create(ctx, nil, in)
	require.NoError(t, err)
	require.NotNil(t, o.UserID)
	assert.Equal(t, guest, *o.UserID)

	f.deps.AllowGuestCheckout = false
	_, err = f.svc.Orders.Create(ctx, nil, in)
	assertKind(t, err, apperr.KindAuthentication)
}

func TestDeleteOrderPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.signup(t, models.RoleBuyer, "Bea", "bea@x.io")
	other := f.signup(t, models.RoleBuyer, "Ola", "ola@x.io")
	seller := f.signup(t, models.RoleSeller, "S", "s@x.io")
	admin := f.signup(t, models.RoleAdmin, "Root", "root@x.io")

	place := func() *models.Order {
		o, err := f.svc.Orders.Create(ctx, buyer, orderFor(LineItemInput{BookID: primitive.NewObjectID().Hex(), Price: 1}))
		require.NoError(t, err)
		return o
	}

	o := place()
	assertKind(t, f.svc.Orders.Delete(ctx, nil, o.ID), apperr.KindAuthentication)
	assertKind(t, f.svc.Orders.Delete(ctx, other, o.ID), apperr.KindAuthorization)
	assertKind(t, f.svc.Orders.Delete(ctx, seller, o.ID), apperr.KindAuthorization)
	require.NoError(t, f.svc.Orders.Delete(ctx, buyer, o.ID))
	assertKind(t, f.svc.Orders.Delete(ctx, buyer, o.ID), apperr.KindNotFound)

	o = place()
	require.NoError(t, f.svc.Orders.Delete(ctx, admin, o.ID))

	all, err := f.svc.Orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
