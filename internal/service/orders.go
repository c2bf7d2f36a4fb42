package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
)

// dateLayout matches the day/month/year strings existing clients display.
const dateLayout = "2/1/2006"

const deliveryDays = 7

type OrderService struct {
	d *Deps
}

type LineItemInput struct {
	BookID string
	Title  string
	Price  float64
	// Qty is nil when the client left it out; that defaults to 1.
	Qty *int
}

type OrderInput struct {
	FlatNo      string
	City        string
	State       string
	Pincode     string
	TotalAmount float64
	Seller      string
	SellerID    string
	BookingDate string
	Delivery    string
	Description string
	UserID      string
	UserName    string
	Items       []LineItemInput
}

// Create records a checkout. The buyer comes from actor when present; the
// client-supplied identity is only used for guest checkout. Line items are
// stored as given and never re-read from the catalog afterwards.
func (s *OrderService) Create(ctx context.Context, actor *auth.Principal, in OrderInput) (*models.Order, error) {
	if actor == nil && !s.d.AllowGuestCheckout {
		return nil, apperr.Unauthenticated("Authentication required")
	}
	if len(in.Items) == 0 {
		return nil, apperr.ValidationField("items", "order must contain at least one item")
	}

	lines := make([]models.LineItem, 0, len(in.Items))
	for i, li := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		bookID, err := ParseID(li.BookID, field+".bookId")
		if err != nil {
			return nil, err
		}
		qty := 1
		if li.Qty != nil {
			qty = *li.Qty
		}
		if qty < 1 {
			return nil, apperr.ValidationField(field+".qty", "qty must be at least 1")
		}
		if li.Price < 0 {
			return nil, apperr.ValidationField(field+".price", "price must be non-negative")
		}
		lines = append(lines, models.LineItem{BookID: bookID, Title: li.Title, Price: li.Price, Qty: qty})
	}

	sellerID, err := parseOptionalID(in.SellerID, "sellerId")
	if err != nil {
		return nil, err
	}

	now := s.d.now()
	o := &models.Order{
		FlatNo:      in.FlatNo,
		City:        in.City,
		State:       in.State,
		Pincode:     in.Pincode,
		TotalAmount: in.TotalAmount,
		Seller:      in.Seller,
		SellerID:    sellerID,
		BookingDate: in.BookingDate,
		Delivery:    in.Delivery,
		Description: in.Description,
		Items:       lines,
		Status:      "Placed",
	}
	if strings.TrimSpace(o.BookingDate) == "" {
		o.BookingDate = now.Format(dateLayout)
	}
	if strings.TrimSpace(o.Delivery) == "" {
		o.Delivery = now.AddDate(0, 0, deliveryDays).Format(dateLayout)
	}

	if actor != nil {
		uid := actor.ID
		o.UserID = &uid
		o.UserName = actor.Name
		if o.UserName == "" {
			o.UserName = in.UserName
		}
	} else {
		if o.UserID, err = parseOptionalID(in.UserID, "userId"); err != nil {
			return nil, err
		}
		o.UserName = in.UserName
	}

	if sum := o.LinesTotal(); math.Abs(sum-o.TotalAmount) > 0.005 {
		s.d.Log.Warnw("order total differs from line items", "total", o.TotalAmount, "lines", sum)
	}

	if err := s.d.Store.CreateOrder(ctx, o); err != nil {
		return nil, storeErr("create order", err, "")
	}
	s.d.Metrics.Orders.Inc()
	s.d.Log.Infow("order placed", "order", o.ID.Hex(), "buyer", o.UserID, "items", len(o.Items))
	return o, nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	out, err := s.d.Store.ListOrdersByBuyer(ctx, userID)
	if err != nil {
		return nil, storeErr("list buyer orders", err, "")
	}
	return out, nil
}

func (s *OrderService) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Order, error) {
	out, err := s.d.Store.ListOrdersBySeller(ctx, sellerID)
	if err != nil {
		return nil, storeErr("list seller orders", err, "")
	}
	return out, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	out, err := s.d.Store.ListOrders(ctx)
	if err != nil {
		return nil, storeErr("list orders", err, "")
	}
	return out, nil
}

// Delete removes an order. Only its buyer or an admin may do so.
func (s *OrderService) Delete(ctx context.Context, actor *auth.Principal, id primitive.ObjectID) error {
	if actor == nil {
		return apperr.Unauthenticated("Not authenticated")
	}
	o, err := s.d.Store.GetOrder(ctx, id)
	if err != nil {
		return storeErr("get order", err, "Order not found")
	}
	if err := CanDeleteOrder(actor, o); err != nil {
		return err
	}
	if err := s.d.Store.DeleteOrder(ctx, id); err != nil {
		return storeErr("delete order", err, "Order not found")
	}
	return nil
}
