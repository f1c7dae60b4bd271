package api

import (
	"context"
	"time"

	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/ratelimit"
	"github.com/fintrack/backend/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router is built from.
type Deps struct {
	Auth        *service.Authenticator
	Categories  *service.CategoryRegistry
	Ledger      *service.Ledger
	Stats       *service.Aggregator
	Store       Pinger
	AuthLimiter *ratelimit.Limiter
	Logger      *logger.Logger
	// Development exposes internal error messages in 500 responses.
	Development bool
	// Swagger serves the API documentation under /swagger.
	Swagger bool
}

// NewRouter wires every route of the API.
func NewRouter(d Deps) *gin.Engine {
	h := NewHandler(d)

	r := gin.New()
	r.Use(requestLogger(h.log), recovery(h.log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders:   []string{headerRequestID, "Retry-After"},
		MaxAge:          12 * time.Hour,
	}))

	r.NoRoute(h.NotFound)

	r.GET("/", h.Root)

	api := r.Group("/api")
	api.GET("/status", h.Status)
	api.GET("/status/ready", h.Ready)

	authRoutes := api.Group("/auth")
	if d.AuthLimiter != nil {
		authRoutes.Use(rateLimited(d.AuthLimiter))
	}
	authRoutes.POST("/register", h.Register)
	authRoutes.POST("/login", h.Login)

	protected := api.Group("", h.authRequired())
	protected.GET("/categories", h.GetCategories)
	protected.GET("/categories/:id", h.GetCategory)
	protected.POST("/categories", h.CreateCategory)
	protected.PUT("/categories/:id", h.UpdateCategory)
	protected.DELETE("/categories/:id", h.DeleteCategory)

	protected.GET("/transactions", h.GetTransactions)
	protected.GET("/transactions/stats", h.GetStats)
	protected.GET("/transactions/:id", h.GetTransaction)
	protected.POST("/transactions", h.CreateTransaction)
	protected.PUT("/transactions/:id", h.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.DeleteTransaction)

	if d.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}
