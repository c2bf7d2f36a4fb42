package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

func (s *Store) CreateItem(ctx context.Context, it *models.Item) error {
	now := s.now()
	it.CreatedAt, it.UpdatedAt = now, now
	if it.Reviews == nil {
		// AppendReview compares on $size, which needs an array
		it.Reviews = []models.Review{}
	}
	res, err := s.db.Collection(colBooks).InsertOne(ctx, it)
	if err != nil {
		return translate(err)
	}
	it.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var it models.Item
	if err := s.db.Collection(colBooks).FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	return findAll[models.Item](ctx, s.db.Collection(colBooks), bson.M{})
}

func (s *Store) ListItemsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Item, error) {
	return findAll[models.Item](ctx, s.db.Collection(colBooks), bson.M{"owner": owner})
}

func (s *Store) ListItemsByGenre(ctx context.Context, genre string) ([]models.Item, error) {
	return findAll[models.Item](ctx, s.db.Collection(colBooks), bson.M{"genre": genre})
}

func (s *Store) UpdateItem(ctx context.Context, id primitive.ObjectID, u models.ItemUpdate) (*models.Item, error) {
	set := bson.M{"updatedAt": s.now()}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("title", u.Title)
	setIf("author", u.Author)
	setIf("genre", u.Genre)
	setIf("description", u.Description)
	setIf("coverImageLink", u.CoverImageLink)
	setIf("coverImageFile", u.CoverImageFile)
	setIf("pdfFile", u.PDFFile)
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.StockQty != nil {
		set["stockQty"] = *u.StockQty
	}

	var it models.Item
	err := s.db.Collection(colBooks).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&it)
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (s *Store) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(colBooks).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AppendReview pushes r only if the review array still has the length we
// computed the aggregate from. A concurrent append changes the length, so the
// update misses and we recompute from a fresh read.
func (s *Store) AppendReview(ctx context.Context, id primitive.ObjectID, r models.Review, rate func([]models.Review) float64) (*models.Item, error) {
	col := s.db.Collection(colBooks)
	for attempt := 0; attempt < appendAttempts; attempt++ {
		it, err := s.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}

		reviews := append(append([]models.Review{}, it.Reviews...), r)
		rating := rate(reviews)
		now := s.now()

		filter := bson.M{"_id": id, "reviews": bson.M{"$size": len(it.Reviews)}}
		if len(it.Reviews) == 0 {
			// legacy documents may lack the array entirely
			filter = bson.M{"_id": id, "$or": bson.A{
				bson.M{"reviews": bson.M{"$size": 0}},
				bson.M{"reviews": bson.M{"$exists": false}},
			}}
		}
		res, err := col.UpdateOne(ctx, filter, bson.M{
			"$push": bson.M{"reviews": r},
			"$set":  bson.M{"rating": rating, "updatedAt": now},
		})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 1 {
			it.Reviews = reviews
			it.Rating = rating
			it.UpdatedAt = now
			return it, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, store.ErrContention
}
