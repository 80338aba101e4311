package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"gtech/internal/pincode"
	"gtech/internal/service"
)

// PincodeLookup почтовый справочник для автозаполнения адреса
type PincodeLookup interface {
	Lookup(ctx context.Context, code string) (*pincode.Location, error)
}

// Services набор сервисов, которые обслуживает API
type Services struct {
	Auth     *service.AuthService
	Products *service.ProductService
	Orders   *service.OrderService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Pincode  PincodeLookup // nil: lookup unavailable
}

type Server struct {
	engine     *gin.Engine
	svc        Services
	log        *zap.Logger
	adminToken string
}

// ServerOption настройка Server
type ServerOption func(*Server)

// WithAdminToken открывает операторские маршруты (правка каталога, смена
// статуса заказа) для запросов с заголовком X-Admin-Token.
func WithAdminToken(token string) ServerOption {
	return func(s *Server) { s.adminToken = token }
}

func NewServer(svc Services, log *zap.Logger, opts ...ServerOption) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())
	s := &Server{engine: r, svc: svc, log: log}
	for _, o := range opts {
		o(s)
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/home", s.home)
		v1.GET("/pincode/:code", s.lookupPincode)

		auth := v1.Group("/auth")
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.POST("/logout", s.logout)
		auth.GET("/me", s.me)
		auth.GET("/profile", s.profile)

		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET("/featured", s.featuredProducts)
		products.GET("/:id", s.getProduct)
		products.POST("", s.requireAdmin, s.createProduct)
		products.PUT("/:id", s.requireAdmin, s.updateProduct)
		products.DELETE("/:id", s.requireAdmin, s.deleteProduct)

		orders := v1.Group("/orders")
		orders.GET("", s.listOrders)
		orders.GET("/pending-count", s.pendingCount)
		orders.POST("", s.createOrder)
		orders.GET("/:id", s.getOrder)
		orders.POST("/:id/cancel", s.cancelOrder)
		orders.PUT("/:id/status", s.requireAdmin, s.updateOrderStatus)

		cart := v1.Group("/cart")
		cart.GET("", s.getCart)
		cart.DELETE("", s.clearCart)
		cart.POST("/sync", s.syncCart)
		cart.POST("/:productId", s.addToCart)
		cart.DELETE("/:productId", s.removeFromCart)

		wishlist := v1.Group("/wishlist")
		wishlist.GET("", s.getWishlist)
		wishlist.GET("/:productId", s.inWishlist)
		wishlist.POST("/:productId/toggle", s.toggleWishlist)

		checkout := v1.Group("/checkout")
		checkout.GET("", s.checkoutOptions)
		checkout.POST("/payment", s.startPayment)
		checkout.POST("/verify", s.completePayment)
	}
}

// adminHeader carries the operator token.
const adminHeader = "X-Admin-Token"

// requireAdmin пропускает только операторов. Без настроенного токена маршрут закрыт.
func (s *Server) requireAdmin(c *gin.Context) {
	if s.adminToken == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: "operator routes disabled"})
		return
	}
	got := c.GetHeader(adminHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "operator token required"})
		return
	}
	c.Next()
}

// requestLogger пишет строку лога на каждый запрос
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
