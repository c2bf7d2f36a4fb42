package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/service"
)

type lineItemRequest struct {
	BookID string      `json:"bookId" binding:"required"`
	Title  string      `json:"title"`
	Price  looseString `json:"price"`
	Qty    looseString `json:"qty"`
}

type orderRequest struct {
	FlatNo      looseString       `json:"flatno"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Pincode     looseString       `json:"pincode"`
	TotalAmount looseString       `json:"totalamount"`
	Seller      string            `json:"seller"`
	SellerID    string            `json:"sellerId"`
	BookingDate string            `json:"BookingDate"`
	Delivery    string            `json:"Delivery"`
	Description string            `json:"description"`
	UserID      string            `json:"userId"`
	UserName    string            `json:"userName"`
	Items       []lineItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r *orderRequest) input() (service.OrderInput, error) {
	total, err := parseFloat(r.TotalAmount, "totalamount")
	if err != nil {
		return service.OrderInput{}, err
	}
	in := service.OrderInput{
		FlatNo:      string(r.FlatNo),
		City:        r.City,
		State:       r.State,
		Pincode:     string(r.Pincode),
		TotalAmount: total,
		Seller:      r.Seller,
		SellerID:    r.SellerID,
		BookingDate: r.BookingDate,
		Delivery:    r.Delivery,
		Description: r.Description,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Items:       make([]service.LineItemInput, 0, len(r.Items)),
	}
	for i, li := range r.Items {
		field := fmt.Sprintf("items[%d]", i)
		price, err := parseFloat(li.Price, field+".price")
		if err != nil {
			return in, err
		}
		qty, err := parseCount(li.Qty, field+".qty")
		if err != nil {
			return in, err
		}
		in.Items = append(in.Items, service.LineItemInput{BookID: li.BookID, Title: li.Title, Price: price, Qty: qty})
	}
	return in, nil
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondError(c, err)
		return
	}
	o, err := h.svc.Orders.Create(c.Request.Context(), middleware.Principal(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) ListBuyerOrders(c *gin.Context) {
	id, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	orders, err := h.svc.Orders.ListByBuyer(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListSellerOrders(c *gin.Context) {
	id, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	orders, err := h.svc.Orders.ListBySeller(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Orders.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
