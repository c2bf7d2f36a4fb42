package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

type WishlistService struct {
	d *Deps
}

type WishlistInput struct {
	ItemID    string
	UserID    string
	UserName  string
	Title     string
	ItemImage string
}

// owner resolves whose wishlist is addressed: the caller when authenticated,
// otherwise the userId in the body.
func owner(actor *auth.Principal, raw string) (primitive.ObjectID, error) {
	if actor != nil {
		return actor.ID, nil
	}
	return ParseID(raw, "userId")
}

func (s *WishlistService) Add(ctx context.Context, actor *auth.Principal, in WishlistInput) (*models.WishlistItem, error) {
	itemID, err := ParseID(in.ItemID, "itemId")
	if err != nil {
		return nil, err
	}
	userID, err := owner(actor, in.UserID)
	if err != nil {
		return nil, err
	}
	w := &models.WishlistItem{
		ItemID:    itemID,
		UserID:    userID,
		UserName:  in.UserName,
		Title:     in.Title,
		ItemImage: in.ItemImage,
	}
	if actor != nil && actor.Name != "" {
		w.UserName = actor.Name
	}
	if err := s.d.Store.AddWishlistItem(ctx, w); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Item already in wishlist")
		}
		return nil, storeErr("add wishlist item", err, "")
	}
	return w, nil
}

// Remove deletes the (item, user) pair. Removing an absent pair is not an
// error.
func (s *WishlistService) Remove(ctx context.Context, actor *auth.Principal, rawItemID, rawUserID string) error {
	itemID, err := ParseID(rawItemID, "itemId")
	if err != nil {
		return err
	}
	userID, err := owner(actor, rawUserID)
	if err != nil {
		return err
	}
	if err := s.d.Store.RemoveWishlistItem(ctx, itemID, userID); err != nil {
		return storeErr("remove wishlist item", err, "")
	}
	return nil
}

func (s *WishlistService) List(ctx context.Context) ([]models.WishlistItem, error) {
	out, err := s.d.Store.ListWishlist(ctx)
	if err != nil {
		return nil, storeErr("list wishlist", err, "")
	}
	return out, nil
}

func (s *WishlistService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	out, err := s.d.Store.ListWishlistByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list wishlist", err, "")
	}
	return out, nil
}
