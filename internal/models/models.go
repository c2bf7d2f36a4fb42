// Package models holds the documents persisted by the bookstore backend.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags a principal with the collection it lives in.
type Role string

const (
	RoleBuyer  Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Roles lists every role in profile lookup order.
var Roles = []Role{RoleBuyer, RoleSeller, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Principal is a buyer, seller or admin account. The three variants share one
// shape and are stored in separate collections keyed by Role.
type Principal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role      Role               `bson:"-" json:"role,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`
	Image     string             `bson:"image" json:"image"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PrincipalUpdate carries the profile fields present in an update request.
type PrincipalUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Image *string
}

type Review struct {
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	UserName  string              `bson:"userName" json:"userName"`
	Rating    float64             `bson:"rating" json:"rating"`
	Comment   string              `bson:"comment" json:"comment"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// Item is a book in the catalog.
type Item struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title          string              `bson:"title" json:"title"`
	Author         string              `bson:"author" json:"author"`
	Genre          string              `bson:"genre" json:"genre"`
	Description    string              `bson:"description" json:"description"`
	Price          float64             `bson:"price" json:"price"`
	StockQty       int                 `bson:"stockQty" json:"stockQty"`
	CoverImageFile string              `bson:"coverImageFile,omitempty" json:"coverImageFile"`
	CoverImageLink string              `bson:"coverImageLink,omitempty" json:"coverImageLink,omitempty"`
	PDFFile        string              `bson:"pdfFile,omitempty" json:"pdfFile"`
	Owner          *primitive.ObjectID `bson:"owner,omitempty" json:"owner,omitempty"`
	UserName       string              `bson:"userName" json:"userName"`
	Rating         float64             `bson:"rating" json:"rating"`
	Reviews        []Review            `bson:"reviews" json:"reviews"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether id is the recorded owner of the item.
func (i *Item) OwnedBy(id primitive.ObjectID) bool {
	return i.Owner != nil && *i.Owner == id
}

// ItemUpdate carries the mutable item fields present in an update request.
type ItemUpdate struct {
	Title          *string
	Author         *string
	Genre          *string
	Description    *string
	Price          *float64
	StockQty       *int
	CoverImageLink *string
	CoverImageFile *string
	PDFFile        *string
}

// LineItem is a frozen snapshot of a catalog item at checkout.
type LineItem struct {
	BookID primitive.ObjectID `bson:"bookId" json:"bookId"`
	Title  string             `bson:"title" json:"title"`
	Price  float64            `bson:"price" json:"price"`
	Qty    int                `bson:"qty" json:"qty"`
}

type Order struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FlatNo      string              `bson:"flatno" json:"flatno"`
	City        string              `bson:"city" json:"city"`
	State       string              `bson:"state" json:"state"`
	Pincode     string              `bson:"pincode" json:"pincode"`
	TotalAmount float64             `bson:"totalamount" json:"totalamount"`
	Seller      string              `bson:"seller" json:"seller"`
	SellerID    *primitive.ObjectID `bson:"sellerId,omitempty" json:"sellerId,omitempty"`
	BookingDate string              `bson:"BookingDate" json:"BookingDate"`
	Description string              `bson:"description" json:"description"`
	Delivery    string              `bson:"Delivery" json:"Delivery"`
	UserID      *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	UserName    string              `bson:"userName" json:"userName"`
	Items       []LineItem          `bson:"items" json:"items"`
	Status      string              `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// LinesTotal sums price*qty over the order's line items.
func (o *Order) LinesTotal() float64 {
	var total float64
	for _, li := range o.Items {
		total += li.Price * float64(li.Qty)
	}
	return total
}

type WishlistItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID    primitive.ObjectID `bson:"itemId" json:"itemId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	ItemImage string             `bson:"itemImage" json:"itemImage"`
	Title     string             `bson:"title" json:"title"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
