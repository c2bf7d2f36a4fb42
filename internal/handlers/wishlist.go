package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/service"
)

type wishlistForm struct {
	ItemID    string `json:"itemId" form:"itemId" binding:"required"`
	UserID    string `json:"userId" form:"userId"`
	UserName  string `json:"userName" form:"userName"`
	Title     string `json:"title" form:"title"`
	ItemImage string `json:"itemImage" form:"itemImage"`
}

func (h *Handler) AddToWishlist(c *gin.Context) {
	var f wishlistForm
	if err := c.ShouldBind(&f); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	w, err := h.svc.Wishlist.Add(c.Request.Context(), middleware.Principal(c), service.WishlistInput{
		ItemID:    f.ItemID,
		UserID:    f.UserID,
		UserName:  f.UserName,
		Title:     f.Title,
		ItemImage: f.ItemImage,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	var f wishlistForm
	if err := c.ShouldBind(&f); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	if err := h.svc.Wishlist.Remove(c.Request.Context(), middleware.Principal(c), f.ItemID, f.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Item removed from wishlist"})
}

func (h *Handler) ListWishlist(c *gin.Context) {
	items, err := h.svc.Wishlist.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ListUserWishlist(c *gin.Context) {
	id, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	items, err := h.svc.Wishlist.ListByUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
