package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/service"
)

const (
	principalKey = "principal"
	decodedKey   = "principal.decoded"
)

// Gate attaches the caller's principal to the request. Every mode decodes
// first, so a role check never runs against an undecoded credential.
type Gate struct {
	tokens *auth.Tokens
	log    *zap.SugaredLogger
}

func NewGate(tokens *auth.Tokens, log *zap.SugaredLogger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// Principal returns the verified caller, or nil for anonymous requests.
func Principal(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

func (g *Gate) decode(c *gin.Context) *auth.Principal {
	if _, done := c.Get(decodedKey); done {
		return Principal(c)
	}
	c.Set(decodedKey, true)

	header := c.GetHeader("Authorization")
	if header == "" {
		return nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}
	p, err := g.tokens.Verify(parts[1])
	if err != nil {
		g.log.Debugw("token rejected", "path", c.FullPath(), "err", err)
		return nil
	}
	c.Set(principalKey, p)
	return p
}

func abort(c *gin.Context, e *apperr.Error) {
	c.AbortWithStatusJSON(e.Kind.Status(), gin.H{"error": e.Message})
}

// Optional decodes a bearer token when one is present and always continues.
func (g *Gate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.decode(c)
		c.Next()
	}
}

// Require rejects requests without a valid token.
func (g *Gate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.decode(c) == nil {
			abort(c, apperr.Unauthenticated("Authentication required"))
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose principal is not one of roles.
func (g *Gate) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireRole(g.decode(c), roles...); err != nil {
			abort(c, apperr.As(err))
			return
		}
		c.Next()
	}
}
