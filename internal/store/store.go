// Package store declares the persistence contracts used by the services.
// Implementations live in mongostore and memstore.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrContention is returned when a conditional update keeps losing races.
	ErrContention = errors.New("store: too much contention")
)

// Principals persists buyers, sellers and admins, one collection per role.
// Email is unique within a role only.
type Principals interface {
	CreatePrincipal(ctx context.Context, role models.Role, p *models.Principal) error
	FindPrincipalByEmail(ctx context.Context, role models.Role, email string) (*models.Principal, error)
	FindPrincipalByID(ctx context.Context, role models.Role, id primitive.ObjectID) (*models.Principal, error)
	UpdatePrincipal(ctx context.Context, role models.Role, id primitive.ObjectID, u models.PrincipalUpdate) (*models.Principal, error)
	ListPrincipals(ctx context.Context, role models.Role) ([]models.Principal, error)
	DeletePrincipal(ctx context.Context, role models.Role, id primitive.ObjectID) error
}

// Catalog persists items and their embedded reviews. List calls return the
// newest items first.
type Catalog interface {
	CreateItem(ctx context.Context, it *models.Item) error
	GetItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListItemsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Item, error)
	ListItemsByGenre(ctx context.Context, genre string) ([]models.Item, error)
	UpdateItem(ctx context.Context, id primitive.ObjectID, u models.ItemUpdate) (*models.Item, error)
	DeleteItem(ctx context.Context, id primitive.ObjectID) error
	// AppendReview appends r and stores rate(all reviews) as the item's rating
	// in one atomic step.
	AppendReview(ctx context.Context, id primitive.ObjectID, r models.Review, rate func([]models.Review) float64) (*models.Item, error)
}

// Orders persists checkout snapshots. List calls return the newest first.
type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByBuyer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
}

// Wishlist persists (item, user) pairs, unique per pair.
type Wishlist interface {
	AddWishlistItem(ctx context.Context, w *models.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, itemID, userID primitive.ObjectID) error
	ListWishlist(ctx context.Context) ([]models.WishlistItem, error)
	ListWishlistByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error)
}

// Store bundles every collection.
type Store interface {
	Principals
	Catalog
	Orders
	Wishlist
	Close(ctx context.Context) error
}
