package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. The auth
// middleware guards everything under /api/v1.
func New(
	catalogHandler *handlers.CatalogHandler,
	pricingHandler *handlers.PricingHandler,
	usersHandler *handlers.UsersHandler,
	authMiddleware gin.HandlerFunc,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(authMiddleware)

	api.POST("/products", catalogHandler.AddProduct)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.PUT("/products/:id", catalogHandler.UpdateProduct)
	api.DELETE("/products/:id", catalogHandler.RemoveProduct)
	api.GET("/products/:id/best-price", pricingHandler.BestPrice)
	api.GET("/products/:id/comparison", pricingHandler.Comparison)
	api.GET("/products/:id/trend", pricingHandler.Trend)

	api.POST("/stores", catalogHandler.AddStore)
	api.GET("/stores", catalogHandler.ListStores)
	api.GET("/stores/:id", catalogHandler.GetStore)
	api.PUT("/stores/:id", catalogHandler.UpdateStore)
	api.DELETE("/stores/:id", catalogHandler.RemoveStore)

	api.POST("/entries", pricingHandler.RecordObservation)
	api.GET("/entries", pricingHandler.ListEntries)
	api.DELETE("/entries/:id", pricingHandler.RemoveObservation)

	api.GET("/best-prices", pricingHandler.BestPrices)
	api.GET("/stats", pricingHandler.Stats)
	api.POST("/bootstrap", catalogHandler.Bootstrap)

	api.GET("/me", usersHandler.Me)
	api.PUT("/me", usersHandler.UpsertMe)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("requestID")))
	}
}
