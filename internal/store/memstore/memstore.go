// Package memstore is an in-process store.Store used by tests and local runs
// without MongoDB. Every write happens under one mutex, so read-modify-write
// sequences such as AppendReview are atomic.
package memstore

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/store"
)

type Store struct {
	mu         sync.RWMutex
	principals map[models.Role][]models.Principal
	items      []models.Item
	orders     []models.Order
	wishlist   []models.WishlistItem
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{principals: map[models.Role][]models.Principal{}, now: time.Now}
}

func (s *Store) Close(context.Context) error { return nil }

// newestFirst copies src in reverse insertion order, keeping the elements
// that match keep.
func newestFirst[T any](src []T, keep func(*T) bool) []T {
	out := []T{}
	for i := len(src) - 1; i >= 0; i-- {
		if keep == nil || keep(&src[i]) {
			out = append(out, clone(src[i]))
		}
	}
	return out
}

// clone detaches slices so callers cannot mutate stored records.
func clone[T any](v T) T {
	switch x := any(&v).(type) {
	case *models.Item:
		x.Reviews = append([]models.Review{}, x.Reviews...)
	case *models.Order:
		x.Items = append([]models.LineItem{}, x.Items...)
	}
	return v
}

func indexOf[T any](src []T, match func(*T) bool) int {
	for i := range src {
		if match(&src[i]) {
			return i
		}
	}
	return -1
}

func remove[T any](src []T, i int) []T {
	return append(src[:i], src[i+1:]...)
}

// ---- principals ----

func (s *Store) CreatePrincipal(_ context.Context, role models.Role, p *models.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.principals[role]
	if indexOf(list, func(x *models.Principal) bool { return x.Email == p.Email }) >= 0 {
		return store.ErrDuplicate
	}
	p.ID = primitive.NewObjectID()
	p.Role = role
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.principals[role] = append(list, *p)
	return nil
}

func (s *Store) findPrincipal(role models.Role, match func(*models.Principal) bool) (*models.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.principals[role]
	i := indexOf(list, match)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	p := list[i]
	return &p, nil
}

func (s *Store) FindPrincipalByEmail(_ context.Context, role models.Role, email string) (*models.Principal, error) {
	return s.findPrincipal(role, func(p *models.Principal) bool { return p.Email == email })
}

func (s *Store) FindPrincipalByID(_ context.Context, role models.Role, id primitive.ObjectID) (*models.Principal, error) {
	return s.findPrincipal(role, func(p *models.Principal) bool { return p.ID == id })
}

func (s *Store) UpdatePrincipal(_ context.Context, role models.Role, id primitive.ObjectID, u models.PrincipalUpdate) (*models.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.principals[role]
	i := indexOf(list, func(p *models.Principal) bool { return p.ID == id })
	if i < 0 {
		return nil, store.ErrNotFound
	}
	if u.Email != nil && indexOf(list, func(p *models.Principal) bool {
		return p.ID != id && p.Email == *u.Email
	}) >= 0 {
		return nil, store.ErrDuplicate
	}
	p := &list[i]
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	out := *p
	return &out, nil
}

func (s *Store) ListPrincipals(_ context.Context, role models.Role) ([]models.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.principals[role], nil), nil
}

func (s *Store) DeletePrincipal(_ context.Context, role models.Role, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.principals[role]
	i := indexOf(list, func(p *models.Principal) bool { return p.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	s.principals[role] = remove(list, i)
	return nil
}

// ---- catalog ----

func (s *Store) CreateItem(_ context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	it.ID = primitive.NewObjectID()
	it.CreatedAt, it.UpdatedAt = now, now
	if it.Reviews == nil {
		it.Reviews = []models.Review{}
	}
	s.items = append(s.items, clone(*it))
	return nil
}

func (s *Store) itemIndex(id primitive.ObjectID) int {
	return indexOf(s.items, func(it *models.Item) bool { return it.ID == id })
}

func (s *Store) GetItem(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.itemIndex(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	it := clone(s.items[i])
	return &it, nil
}

func (s *Store) ListItems(context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.items, nil), nil
}

func (s *Store) ListItemsByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.items, func(it *models.Item) bool { return it.OwnedBy(owner) }), nil
}

func (s *Store) ListItemsByGenre(_ context.Context, genre string) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.items, func(it *models.Item) bool { return it.Genre == genre }), nil
}

func (s *Store) UpdateItem(_ context.Context, id primitive.ObjectID, u models.ItemUpdate) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	it := &s.items[i]
	setIf := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setIf(&it.Title, u.Title)
	setIf(&it.Author, u.Author)
	setIf(&it.Genre, u.Genre)
	setIf(&it.Description, u.Description)
	setIf(&it.CoverImageLink, u.CoverImageLink)
	setIf(&it.CoverImageFile, u.CoverImageFile)
	setIf(&it.PDFFile, u.PDFFile)
	if u.Price != nil {
		it.Price = *u.Price
	}
	if u.StockQty != nil {
		it.StockQty = *u.StockQty
	}
	it.UpdatedAt = s.now()
	out := clone(*it)
	return &out, nil
}

func (s *Store) DeleteItem(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.items = remove(s.items, i)
	return nil
}

func (s *Store) AppendReview(_ context.Context, id primitive.ObjectID, r models.Review, rate func([]models.Review) float64) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	it := &s.items[i]
	it.Reviews = append(it.Reviews, r)
	it.Rating = rate(it.Reviews)
	it.UpdatedAt = s.now()
	out := clone(*it)
	return &out, nil
}

// ---- orders ----

func (s *Store) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	o.ID = primitive.NewObjectID()
	o.CreatedAt, o.UpdatedAt = now, now
	s.orders = append(s.orders, clone(*o))
	return nil
}

func (s *Store) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.orders, func(o *models.Order) bool { return o.ID == id })
	if i < 0 {
		return nil, store.ErrNotFound
	}
	o := clone(s.orders[i])
	return &o, nil
}

func (s *Store) ListOrders(context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.orders, nil), nil
}

func (s *Store) ListOrdersByBuyer(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.orders, func(o *models.Order) bool { return o.UserID != nil && *o.UserID == userID }), nil
}

func (s *Store) ListOrdersBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.orders, func(o *models.Order) bool { return o.SellerID != nil && *o.SellerID == sellerID }), nil
}

func (s *Store) DeleteOrder(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.orders, func(o *models.Order) bool { return o.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	s.orders = remove(s.orders, i)
	return nil
}

// ---- wishlist ----

func (s *Store) AddWishlistItem(_ context.Context, w *models.WishlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.wishlist, func(x *models.WishlistItem) bool {
		return x.ItemID == w.ItemID && x.UserID == w.UserID
	}) >= 0 {
		return store.ErrDuplicate
	}
	w.ID = primitive.NewObjectID()
	w.CreatedAt = s.now()
	s.wishlist = append(s.wishlist, *w)
	return nil
}

func (s *Store) RemoveWishlistItem(_ context.Context, itemID, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.wishlist, func(x *models.WishlistItem) bool {
		return x.ItemID == itemID && x.UserID == userID
	})
	if i >= 0 {
		s.wishlist = remove(s.wishlist, i)
	}
	return nil
}

func (s *Store) ListWishlist(context.Context) ([]models.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.wishlist, nil), nil
}

func (s *Store) ListWishlistByUser(_ context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.wishlist, func(x *models.WishlistItem) bool { return x.UserID == userID }), nil
}
