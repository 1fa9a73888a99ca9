package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"shuddhneer/internal/logger"
	"shuddhneer/internal/metrics"
	"shuddhneer/internal/repository"
	"shuddhneer/internal/service"
)

// Services набор сервисов, которые обслуживает API
type Services struct {
	Products *service.ProductService
	Orders   *service.OrderService
	Carts    *service.CartService
	Profiles *service.ProfileService
	Insights *service.InsightService
}

// Options инфраструктура сервера. Все поля необязательны.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Gatherer enables GET /metrics.
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

type Server struct {
	engine   *gin.Engine
	logg     *logger.Logger
	products *service.ProductService
	orders   *service.OrderService
	carts    *service.CartService
	profiles *service.ProfileService
	insights *service.InsightService
}

func NewServer(svc Services, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	registerValidators()

	r := gin.New()
	// handlers pass *gin.Context down; request-scoped log fields live on the request context
	r.ContextWithFallback = true
	r.Use(
		requestID(opts.Logger),
		requestLogger(opts.Logger),
		recovery(opts.Logger),
		observe(opts.Metrics),
	)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
		}))
	}

	s := &Server{
		engine:   r,
		logg:     opts.Logger,
		products: svc.Products,
		orders:   svc.Orders,
		carts:    svc.Carts,
		profiles: svc.Profiles,
		insights: svc.Insights,
	}
	s.registerRoutes(opts.Gatherer)
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET(":id", s.getProduct)

		v1.POST("/orders", s.placeOrder)

		customer := v1.Group("/customers/:customerID")
		customer.GET("/orders", s.listCustomerOrders)
		customer.GET("/cart", s.getCart)
		customer.DELETE("/cart", s.clearCart)
		customer.POST("/cart/items", s.addCartItem)
		customer.PATCH("/cart/items/:productID", s.adjustCartItem)
		customer.POST("/checkout", s.checkout)
		customer.GET("/addresses", s.listAddresses)
		customer.POST("/addresses", s.addAddress)
		customer.PUT("/addresses/:addressID/default", s.setDefaultAddress)
		customer.DELETE("/addresses/:addressID", s.deleteAddress)
		customer.GET("/payment-methods", s.listPaymentMethods)
		customer.PUT("/payment-methods/:paymentID/default", s.setDefaultPaymentMethod)
		customer.POST("/support/chat", s.supportChat)

		admin := v1.Group("/admin")
		admin.GET("/orders", s.listOrders)
		admin.GET("/orders/:id", s.getOrder)
		admin.PATCH("/orders/:id/status", s.updateOrderStatus)
		admin.PUT("/orders/:id", s.editOrder)
		admin.GET("/stats", s.stats)
		admin.GET("/insights", s.dashboardInsights)
	}
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		s.logg.Error(c, "request.failed", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON answers 400 itself when the body is malformed or fails validation.
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, validationResponse(err))
		return false
	}
	return true
}
