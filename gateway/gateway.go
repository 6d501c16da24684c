package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/freshcart/pkg/auth"
	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/checkout"
	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/metrics"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuditReader is satisfied by *repository.MongoRepository.
type AuditReader interface {
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error)
}

// OrderService is satisfied by *order.Store.
type OrderService interface {
	List(ctx context.Context) ([]models.Order, error)
	Current(ctx context.Context) (models.Order, bool)
	GetByID(ctx context.Context, orderID string) (models.Order, bool)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	StartTracking(ctx context.Context, orderID string) (bool, error)
	StopTracking(ctx context.Context, orderID string) (bool, error)
}

// Deps are the stores and services the gateway serves. Audit is optional.
type Deps struct {
	Catalog  *catalog.Catalog
	Cart     *cart.Cart
	Orders   OrderService
	Auth     *auth.Store
	Checkout *checkout.Service
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Audit    AuditReader
}

type Gateway struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	server *http.Server
	deps   Deps
}

func NewGateway(cfg *config.Config, logger *zap.Logger, deps Deps) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	if deps.Metrics != nil {
		router.Use(metricsMiddleware(deps.Metrics))
	}

	g := &Gateway{
		config: cfg,
		logger: logger,
		router: router,
		deps:   deps,
	}
	g.setupRoutes()
	return g
}

func (g *Gateway) setupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if g.deps.Gatherer != nil {
		g.router.GET("/metrics", gin.WrapH(metrics.Handler(g.deps.Gatherer)))
	}

	v1 := g.router.Group("/api/v1")
	{
		v1.GET("/banners", g.listBanners)

		shops := v1.Group("/shops")
		{
			shops.GET("", g.listShops)
			shops.GET("/:id", g.getShop)
			shops.GET("/:id/products", g.listProducts)
			shops.GET("/:id/categories", g.listCategories)
		}
		v1.GET("/products/:id", g.getProduct)

		cartGroup := v1.Group("/cart")
		{
			cartGroup.GET("", g.getCart)
			cartGroup.DELETE("", g.clearCart)
			cartGroup.POST("/items", g.addCartItem)
			cartGroup.PUT("/items/:productId", g.updateCartItem)
			cartGroup.DELETE("/items/:productId", g.removeCartItem)
		}

		v1.GET("/checkout/summary", g.checkoutSummary)
		v1.POST("/checkout", g.placeOrder)

		orders := v1.Group("/orders")
		{
			orders.GET("", g.listOrders)
			orders.GET("/current", g.currentOrder)
			orders.GET("/:id", g.getOrder)
			orders.PUT("/:id/status", g.updateOrderStatus)
			orders.POST("/:id/tracking", g.startTracking)
			orders.DELETE("/:id/tracking", g.stopTracking)
			orders.GET("/:id/audit", g.orderAudit)
		}

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", g.login)
			authGroup.POST("/logout", g.requireAuth, g.logout)
			authGroup.GET("/me", g.requireAuth, g.me)
			authGroup.PATCH("/me", g.requireAuth, g.updateMe)
		}
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := g.config.Gateway.Address()
	g.server = &http.Server{Addr: addr, Handler: g.router, ReadHeaderTimeout: 5 * time.Second}
	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

// requireAuth accepts "Authorization: Bearer <token>" for the current session.
func (g *Gateway) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := g.deps.Auth.VerifyToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(handler).Observe(time.Since(start).Seconds())
	}
}
