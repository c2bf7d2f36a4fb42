package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

func (s *Store) principals(role models.Role) (*mongo.Collection, error) {
	name, ok := principalCollections[role]
	if !ok {
		return nil, fmt.Errorf("mongostore: unknown role %q", role)
	}
	return s.db.Collection(name), nil
}

func (s *Store) CreatePrincipal(ctx context.Context, role models.Role, p *models.Principal) error {
	col, err := s.principals(role)
	if err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	res, err := col.InsertOne(ctx, p)
	if err != nil {
		return translate(err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	p.Role = role
	return nil
}

func (s *Store) findPrincipal(ctx context.Context, role models.Role, filter bson.M) (*models.Principal, error) {
	col, err := s.principals(role)
	if err != nil {
		return nil, err
	}
	var p models.Principal
	if err := col.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, translate(err)
	}
	p.Role = role
	return &p, nil
}

func (s *Store) FindPrincipalByEmail(ctx context.Context, role models.Role, email string) (*models.Principal, error) {
	return s.findPrincipal(ctx, role, bson.M{"email": email})
}

func (s *Store) FindPrincipalByID(ctx context.Context, role models.Role, id primitive.ObjectID) (*models.Principal, error) {
	return s.findPrincipal(ctx, role, bson.M{"_id": id})
}

func (s *Store) UpdatePrincipal(ctx context.Context, role models.Role, id primitive.ObjectID, u models.PrincipalUpdate) (*models.Principal, error) {
	col, err := s.principals(role)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if len(set) == 0 {
		return s.FindPrincipalByID(ctx, role, id)
	}

	var p models.Principal
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	p.Role = role
	return &p, nil
}

func (s *Store) ListPrincipals(ctx context.Context, role models.Role) ([]models.Principal, error) {
	col, err := s.principals(role)
	if err != nil {
		return nil, err
	}
	out, err := findAll[models.Principal](ctx, col, bson.M{})
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Role = role
	}
	return out, nil
}

func (s *Store) DeletePrincipal(ctx context.Context, role models.Role, id primitive.ObjectID) error {
	col, err := s.principals(role)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
