package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/logger"
	"bookstore-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(tokens *auth.Tokens) *gin.Engine {
	g := NewGate(tokens, logger.Nop())
	whoami := func(c *gin.Context) {
		if p := Principal(c); p != nil {
			c.JSON(http.StatusOK, gin.H{"id": p.ID.Hex(), "role": p.Role})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": ""})
	}
	r := gin.New()
	r.GET("/optional", g.Optional(), whoami)
	r.GET("/required", g.Require(), whoami)
	r.GET("/sellers", g.RequireRole(models.RoleSeller, models.RoleAdmin), whoami)
	// stacking gates decodes once
	r.GET("/stacked", g.Optional(), g.Require(), g.RequireRole(models.RoleAdmin), whoami)
	return r
}

func call(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateModes(t *testing.T) {
	tokens := auth.NewTokens("gate-secret", time.Hour)
	r := newTestRouter(tokens)

	issue := func(role models.Role) string {
		tok, err := tokens.Issue(primitive.NewObjectID(), role, "n", "e@x.io")
		require.NoError(t, err)
		return tok
	}
	buyer, seller, admin := issue(models.RoleBuyer), issue(models.RoleSeller), issue(models.RoleAdmin)
	forged := auth.NewTokens("other-secret", time.Hour)
	bad, err := forged.Issue(primitive.NewObjectID(), models.RoleAdmin, "n", "e@x.io")
	require.NoError(t, err)

	cases := []struct {
		path  string
		token string
		want  int
	}{
		{"/optional", "", http.StatusOK},
		{"/optional", bad, http.StatusOK},
		{"/optional", buyer, http.StatusOK},
		{"/required", "", http.StatusUnauthorized},
		{"/required", bad, http.StatusUnauthorized},
		{"/required", buyer, http.StatusOK},
		{"/sellers", "", http.StatusUnauthorized},
		{"/sellers", buyer, http.StatusForbidden},
		{"/sellers", seller, http.StatusOK},
		{"/sellers", admin, http.StatusOK},
		{"/stacked", seller, http.StatusForbidden},
		{"/stacked", admin, http.StatusOK},
	}
	for _, tc := range cases {
		w := call(r, tc.path, tc.token)
		assert.Equal(t, tc.want, w.Code, "%s with token %q", tc.path, tc.token)
	}
}

func TestOptionalIgnoresRejectedToken(t *testing.T) {
	r := newTestRouter(auth.NewTokens("gate-secret", time.Hour))
	w := call(r, "/optional", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":""}`, w.Body.String())
}

func TestMalformedHeader(t *testing.T) {
	tokens := auth.NewTokens("gate-secret", time.Hour)
	tok, err := tokens.Issue(primitive.NewObjectID(), models.RoleBuyer, "n", "e@x.io")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", tok)
	w := httptest.NewRecorder()
	newTestRouter(tokens).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
}
