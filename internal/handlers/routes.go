package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/metrics"
	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/models"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(cfg *config.Config, h *Handler, gate *middleware.Gate, m *metrics.Metrics, log *zap.SugaredLogger) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog(log, m))
	cc := cors.Config{
		AllowOrigins:     cfg.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cc.AllowOrigins) == 0 {
		cc.AllowOrigins, cc.AllowAllOrigins = nil, true
	}
	r.Use(cors.New(cc))

	limit := cfg.MaxUploadMB << 20
	r.MaxMultipartMemory = limit
	r.Use(func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	})

	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"pong": true}) })
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/uploads/*path", h.ServeUpload)

	// Auth
	r.POST("/signup", h.Signup(models.RoleBuyer))
	r.POST("/ssignup", h.Signup(models.RoleSeller))
	r.POST("/asignup", h.Signup(models.RoleAdmin))
	r.POST("/login", h.Login(models.RoleBuyer))
	r.POST("/slogin", h.Login(models.RoleSeller))
	r.POST("/alogin", h.Login(models.RoleAdmin))

	// Catalog
	r.GET("/item", h.ListItems)
	r.GET("/item/:id", h.GetItem)
	r.GET("/items/genre/:genre", h.ListItemsByGenre)
	r.GET("/getitem/:sellerId", h.ListItemsBySeller)
	r.GET("/item/:id/pdf/view", h.ServePDF("inline"))
	r.GET("/item/:id/pdf/download", h.ServePDF("attachment"))
	r.POST("/items", gate.RequireRole(models.RoleSeller, models.RoleAdmin), h.CreateItem)
	r.PUT("/items/:id", gate.Require(), h.UpdateItem)
	r.DELETE("/itemdelete/:id", gate.Require(), h.DeleteItem)
	r.POST("/item/:id/review", gate.Require(), h.AddReview)

	// Orders
	r.POST("/userorder", gate.Optional(), h.CreateOrder)
	r.GET("/getorders/:userId", h.ListBuyerOrders)
	r.GET("/getsellerorders/:userId", h.ListSellerOrders)
	r.DELETE("/userorderdelete/:id", gate.Require(), h.DeleteOrder)

	// Profile
	r.GET("/profile", gate.Require(), h.Profile)
	r.PUT("/profile", gate.Require(), h.UpdateProfile)
	r.GET("/profile/:id", h.ProfileByID)

	// Wishlist
	wl := r.Group("/wishlist", gate.Optional())
	{
		wl.GET("", h.ListWishlist)
		wl.GET("/:userId", h.ListUserWishlist)
		wl.POST("/add", h.AddToWishlist)
		wl.POST("/remove", h.RemoveFromWishlist)
	}

	// Admin
	admin := r.Group("", gate.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", h.ListAccounts(models.RoleBuyer))
		admin.DELETE("/userdelete/:id", h.DeleteAccount(models.RoleBuyer))
		admin.GET("/sellers", h.ListAccounts(models.RoleSeller))
		admin.DELETE("/sellerdelete/:id", h.DeleteAccount(models.RoleSeller))
		admin.GET("/orders", h.ListOrders)
		admin.GET("/items", h.ListItems)
	}

	return r
}
