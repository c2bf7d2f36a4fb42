package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/service"
)

type signupRequest struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type sessionUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func newSessionUser(p *models.Principal) sessionUser {
	return sessionUser{ID: p.ID.Hex(), Name: p.Name, Email: p.Email, Role: p.Role}
}

// Signup returns the handler creating an account with the given role.
func (h *Handler) Signup(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBind(&req); err != nil {
			h.respondError(c, bindError(err))
			return
		}
		sess, err := h.svc.Auth.Signup(c.Request.Context(), role, service.SignupInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Account Created",
			"token":   sess.Token,
			"user":    newSessionUser(sess.Principal),
		})
	}
}

// Login returns the handler authenticating an account with the given role.
func (h *Handler) Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			h.respondError(c, bindError(err))
			return
		}
		sess, err := h.svc.Auth.Login(c.Request.Context(), role, req.Email, req.Password)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"Status": "Success",
			"token":  sess.Token,
			"user":   newSessionUser(sess.Principal),
		})
	}
}
