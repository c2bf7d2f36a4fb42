package service

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/storage"
	"bookstore-backend/internal/store"
)

type CatalogService struct {
	d *Deps
}

// ItemInput carries item fields as received. Nil means the field was not
// sent; numeric fields are raw so that parsing errors name the field.
type ItemInput struct {
	Title          *string
	Author         *string
	Genre          *string
	Description    *string
	Price          *string
	StockQty       *string
	CoverImageLink *string
	UserName       *string
	Owner          *string

	Cover *Upload
	PDF   *Upload
}

type ReviewInput struct {
	Rating  *string
	Comment string
}

// AverageRating is the mean of all review ratings rounded half up to one
// decimal place, or 0 when there are no reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Floor(sum/float64(len(reviews))*10+0.5) / 10
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func parseStock(raw *string) (*int, error) {
	v, err := parseNumber(raw, "stockQty")
	if err != nil {
		return nil, apperr.ValidationField("stockQty", "stockQty must be a non-negative integer")
	}
	if v == nil {
		return nil, nil
	}
	if *v < 0 {
		return nil, apperr.ValidationField("stockQty", "stockQty must be a non-negative integer")
	}
	n := int(math.Floor(*v))
	return &n, nil
}

func parsePrice(raw *string) (*float64, error) {
	v, err := parseNumber(raw, "price")
	if err != nil {
		return nil, err
	}
	if v != nil && *v < 0 {
		return nil, apperr.ValidationField("price", "price must be non-negative")
	}
	return v, nil
}

func (s *CatalogService) Create(ctx context.Context, actor *auth.Principal, in ItemInput) (*models.Item, error) {
	if err := CanCreateItem(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(str(in.Title))
	author := strings.TrimSpace(str(in.Author))
	genre := strings.TrimSpace(str(in.Genre))
	if title == "" || author == "" || genre == "" {
		return nil, apperr.Validation("title, author and genre are required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	stock, err := parseStock(in.StockQty)
	if err != nil {
		return nil, err
	}

	it := &models.Item{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: str(in.Description),
		UserName:    str(in.UserName),
	}
	if price != nil {
		it.Price = *price
	}
	if stock != nil {
		it.StockQty = *stock
	}
	if link := strings.TrimSpace(str(in.CoverImageLink)); link != "" {
		it.CoverImageLink = link
	}

	switch actor.Role {
	case models.RoleSeller:
		// sellers always own what they list, whatever the form says
		owner := actor.ID
		it.Owner = &owner
		if it.UserName == "" {
			it.UserName = actor.Name
		}
	case models.RoleAdmin:
		if owner, err := primitive.ObjectIDFromHex(str(in.Owner)); err == nil {
			it.Owner = &owner
		}
	}

	if in.Cover != nil {
		if it.CoverImageFile, err = s.d.saveUpload(ctx, in.Cover); err != nil {
			return nil, err
		}
	}
	if in.PDF != nil {
		if it.PDFFile, err = s.d.saveUpload(ctx, in.PDF); err != nil {
			s.d.release(ctx, it.CoverImageFile)
			return nil, err
		}
	}

	if err := s.d.Store.CreateItem(ctx, it); err != nil {
		s.d.release(ctx, it.CoverImageFile)
		s.d.release(ctx, it.PDFFile)
		return nil, storeErr("create item", err, "Book not found")
	}
	s.d.Log.Infow("item created", "item", it.ID.Hex(), "by", actor.ID.Hex(), "role", actor.Role)
	return it, nil
}

func (s *CatalogService) Update(ctx context.Context, actor *auth.Principal, id primitive.ObjectID, in ItemInput) (*models.Item, error) {
	if actor == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	cur, err := s.d.Store.GetItem(ctx, id)
	if err != nil {
		return nil, storeErr("get item", err, "Book not found")
	}
	if err := CanMutateItem(actor, cur); err != nil {
		return nil, err
	}

	u := models.ItemUpdate{
		Title:          in.Title,
		Author:         in.Author,
		Genre:          in.Genre,
		Description:    in.Description,
		CoverImageLink: in.CoverImageLink,
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return nil, apperr.ValidationField("title", "title cannot be empty")
	}
	if u.Price, err = parsePrice(in.Price); err != nil {
		return nil, err
	}
	if u.StockQty, err = parseStock(in.StockQty); err != nil {
		return nil, err
	}

	var saved []string
	if in.Cover != nil {
		ref, err := s.d.saveUpload(ctx, in.Cover)
		if err != nil {
			return nil, err
		}
		saved = append(saved, ref)
		u.CoverImageFile = &ref
	}
	if in.PDF != nil {
		ref, err := s.d.saveUpload(ctx, in.PDF)
		if err != nil {
			for _, r := range saved {
				s.d.release(ctx, r)
			}
			return nil, err
		}
		u.PDFFile = &ref
	}

	it, err := s.d.Store.UpdateItem(ctx, id, u)
	if err != nil {
		s.d.release(ctx, str(u.CoverImageFile))
		s.d.release(ctx, str(u.PDFFile))
		return nil, storeErr("update item", err, "Book not found")
	}
	if u.CoverImageFile != nil {
		s.d.release(ctx, cur.CoverImageFile)
	}
	if u.PDFFile != nil {
		s.d.release(ctx, cur.PDFFile)
	}
	return it, nil
}

// Delete removes an item under the same ownership rule as Update.
func (s *CatalogService) Delete(ctx context.Context, actor *auth.Principal, id primitive.ObjectID) error {
	if actor == nil {
		return apperr.Unauthenticated("Not authenticated")
	}
	cur, err := s.d.Store.GetItem(ctx, id)
	if err != nil {
		return storeErr("get item", err, "Book not found")
	}
	if err := CanMutateItem(actor, cur); err != nil {
		return err
	}
	if err := s.d.Store.DeleteItem(ctx, id); err != nil {
		return storeErr("delete item", err, "Book not found")
	}
	s.d.release(ctx, cur.CoverImageFile)
	s.d.release(ctx, cur.PDFFile)
	s.d.Log.Infow("item deleted", "item", id.Hex(), "by", actor.ID.Hex(), "role", actor.Role)
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	it, err := s.d.Store.GetItem(ctx, id)
	if err != nil {
		return nil, storeErr("get item", err, "Not found")
	}
	return it, nil
}

func (s *CatalogService) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.d.Store.ListItems(ctx)
	if err != nil {
		return nil, storeErr("list items", err, "")
	}
	return items, nil
}

func (s *CatalogService) ListBySeller(ctx context.Context, seller primitive.ObjectID) ([]models.Item, error) {
	items, err := s.d.Store.ListItemsByOwner(ctx, seller)
	if err != nil {
		return nil, storeErr("list seller items", err, "")
	}
	return items, nil
}

func (s *CatalogService) ListByGenre(ctx context.Context, genre string) ([]models.Item, error) {
	items, err := s.d.Store.ListItemsByGenre(ctx, genre)
	if err != nil {
		return nil, storeErr("list genre items", err, "")
	}
	return items, nil
}

// AddReview appends a review by actor and refreshes the item's rating.
func (s *CatalogService) AddReview(ctx context.Context, actor *auth.Principal, id primitive.ObjectID, in ReviewInput) (*models.Item, error) {
	if actor == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	if in.Rating == nil || strings.TrimSpace(*in.Rating) == "" {
		return nil, apperr.ValidationField("rating", "rating required")
	}
	rating, err := parseNumber(in.Rating, "rating")
	if err != nil {
		return nil, err
	}
	if *rating < 1 || *rating > 5 || *rating != math.Trunc(*rating) {
		return nil, apperr.ValidationField("rating", "rating must be a whole number from 1 to 5")
	}

	name := actor.Name
	if name == "" {
		name = "User"
	}
	uid := actor.ID
	review := models.Review{
		UserID:    &uid,
		UserName:  name,
		Rating:    *rating,
		Comment:   in.Comment,
		CreatedAt: s.d.now(),
	}

	it, err := s.d.Store.AppendReview(ctx, id, review, AverageRating)
	if err != nil {
		if errors.Is(err, store.ErrContention) {
			s.d.Log.Warnw("review append contention", "item", id.Hex())
		}
		return nil, storeErr("add review", err, "Book not found")
	}
	s.d.Metrics.Reviews.Inc()
	return it, nil
}

// PDF opens the item's stored PDF. The caller closes the reader.
func (s *CatalogService) PDF(ctx context.Context, id primitive.ObjectID) (io.ReadCloser, string, error) {
	it, err := s.d.Store.GetItem(ctx, id)
	if err != nil {
		return nil, "", storeErr("get item", err, "PDF not found")
	}
	if it.PDFFile == "" {
		return nil, "", apperr.NotFound("PDF not found")
	}
	name, err := storage.NameOf(it.PDFFile)
	if err != nil || !s.d.Disk.Exists(ctx, name) {
		s.d.Log.Warnw("pdf missing", "item", id.Hex(), "ref", it.PDFFile)
		return nil, "", apperr.NotFound("File missing on server")
	}
	rc, err := s.d.Disk.Open(ctx, name)
	if err != nil {
		return nil, "", apperr.Store("open pdf", err)
	}
	return rc, name, nil
}
