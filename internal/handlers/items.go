package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/service"
)

// itemForm accepts multipart, urlencoded and JSON bodies alike. Numeric
// fields stay raw so that a blank value means "not sent" in every encoding.
type itemForm struct {
	Title          *string      `json:"title" form:"title"`
	Author         *string      `json:"author" form:"author"`
	Genre          *string      `json:"genre" form:"genre"`
	Description    *string      `json:"description" form:"description"`
	Price          *looseString `json:"price" form:"price"`
	StockQty       *looseString `json:"stockQty" form:"stockQty"`
	CoverImageLink *string      `json:"coverImageLink" form:"coverImageLink"`
	UserName       *string      `json:"userName" form:"userName"`
	Owner          *string      `json:"owner" form:"owner"`
}

type reviewForm struct {
	Rating  *looseString `json:"rating" form:"rating"`
	Comment string       `json:"comment" form:"comment"`
}

// itemInput binds the request body and opens any uploaded files. The
// returned closer releases the uploads and is never nil.
func itemInput(c *gin.Context) (service.ItemInput, func(), error) {
	var f itemForm
	if err := c.ShouldBind(&f); err != nil {
		return service.ItemInput{}, func() {}, bindError(err)
	}
	in := service.ItemInput{
		Title:          f.Title,
		Author:         f.Author,
		Genre:          f.Genre,
		Description:    f.Description,
		Price:          numStr(f.Price),
		StockQty:       numStr(f.StockQty),
		CoverImageLink: f.CoverImageLink,
		UserName:       f.UserName,
		Owner:          f.Owner,
	}
	cover, closeCover, err := formUpload(c, "coverImageFile")
	if err != nil {
		return in, func() {}, err
	}
	pdf, closePDF, err := formUpload(c, "pdfFile")
	if err != nil {
		closeCover()
		return in, func() {}, err
	}
	in.Cover, in.PDF = cover, pdf
	return in, func() { closeCover(); closePDF() }, nil
}

func (h *Handler) CreateItem(c *gin.Context) {
	in, done, err := itemInput(c)
	defer done()
	if err != nil {
		h.respondError(c, err)
		return
	}
	it, err := h.svc.Catalog.Create(c.Request.Context(), middleware.Principal(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, itemView(c, it))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	in, done, err := itemInput(c)
	defer done()
	if err != nil {
		h.respondError(c, err)
		return
	}
	it, err := h.svc.Catalog.Update(c.Request.Context(), middleware.Principal(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemView(c, it))
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Catalog.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) GetItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	it, err := h.svc.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemView(c, it))
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.svc.Catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemViews(c, items))
}

func (h *Handler) ListItemsByGenre(c *gin.Context) {
	items, err := h.svc.Catalog.ListByGenre(c.Request.Context(), c.Param("genre"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemViews(c, items))
}

func (h *Handler) ListItemsBySeller(c *gin.Context) {
	id, ok := h.pathID(c, "sellerId")
	if !ok {
		return
	}
	items, err := h.svc.Catalog.ListBySeller(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemViews(c, items))
}

func (h *Handler) AddReview(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var f reviewForm
	if err := c.ShouldBind(&f); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	it, err := h.svc.Catalog.AddReview(c.Request.Context(), middleware.Principal(c), id, service.ReviewInput{
		Rating:  numStr(f.Rating),
		Comment: f.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "book": itemView(c, it)})
}

// ServePDF streams the item's PDF, inline or as an attachment.
func (h *Handler) ServePDF(disposition string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		rc, name, err := h.svc.Catalog.PDF(c.Request.Context(), id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		defer rc.Close()
		c.DataFromReader(http.StatusOK, -1, "application/pdf", rc, map[string]string{
			"Content-Disposition": fmt.Sprintf("%s; filename=%q", disposition, name),
		})
	}
}
