package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/models"
)

// ListAccounts lists every account of role.
func (h *Handler) ListAccounts(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := h.svc.Admin.Accounts(c.Request.Context(), role)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accountViews(c, accounts))
	}
}

func (h *Handler) DeleteAccount(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		if err := h.svc.Admin.DeleteAccount(c.Request.Context(), role, id); err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
