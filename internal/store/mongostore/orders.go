package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	res, err := s.db.Collection(colOrders).InsertOne(ctx, o)
	if err != nil {
		return translate(err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := s.db.Collection(colOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.db.Collection(colOrders), bson.M{})
}

func (s *Store) ListOrdersByBuyer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.db.Collection(colOrders), bson.M{"userId": userID})
}

func (s *Store) ListOrdersBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.db.Collection(colOrders), bson.M{"sellerId": sellerID})
}

func (s *Store) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(colOrders).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
