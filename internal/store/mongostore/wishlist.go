package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

func (s *Store) AddWishlistItem(ctx context.Context, w *models.WishlistItem) error {
	col := s.db.Collection(colWishlist)
	// the unique index covers races; the lookup keeps the error explicit when
	// indexes have not been created yet
	n, err := col.CountDocuments(ctx, bson.M{"itemId": w.ItemID, "userId": w.UserID})
	if err != nil {
		return err
	}
	if n > 0 {
		return store.ErrDuplicate
	}
	w.CreatedAt = s.now()
	res, err := col.InsertOne(ctx, w)
	if err != nil {
		return translate(err)
	}
	w.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) RemoveWishlistItem(ctx context.Context, itemID, userID primitive.ObjectID) error {
	_, err := s.db.Collection(colWishlist).DeleteOne(ctx, bson.M{"itemId": itemID, "userId": userID})
	return err
}

func (s *Store) ListWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	return findAll[models.WishlistItem](ctx, s.db.Collection(colWishlist), bson.M{})
}

func (s *Store) ListWishlistByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	return findAll[models.WishlistItem](ctx, s.db.Collection(colWishlist), bson.M{"userId": userID})
}
