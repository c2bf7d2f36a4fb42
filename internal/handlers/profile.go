package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/service"
)

type profileForm struct {
	Name      *string `json:"name" form:"name"`
	Phone     *string `json:"phone" form:"phone"`
	Email     *string `json:"email" form:"email"`
	ImageLink *string `json:"imageLink" form:"imageLink"`
}

// Profile returns the caller's own profile.
func (h *Handler) Profile(c *gin.Context) {
	p, err := h.svc.Profiles.Me(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileView(c, p))
}

// ProfileByID looks an account up across every role.
func (h *Handler) ProfileByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Profiles.Lookup(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileView(c, p))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	avatar, done, err := formUpload(c, "avatar")
	defer done()
	if err != nil {
		h.respondError(c, err)
		return
	}
	p, err := h.svc.Profiles.Update(c.Request.Context(), middleware.Principal(c), service.ProfileInput{
		Name:      f.Name,
		Phone:     f.Phone,
		Email:     f.Email,
		ImageLink: f.ImageLink,
		Avatar:    avatar,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileView(c, p))
}
