package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"forex-converter-api/internal/config"
	"forex-converter-api/internal/metrics"
	"forex-converter-api/internal/middleware"
	"forex-converter-api/internal/models"
	"forex-converter-api/internal/ratelimit"
	"forex-converter-api/internal/rates"
	"forex-converter-api/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	logger         *logrus.Logger
	configuration  *config.Config
	table          *rates.Table
	converter      *service.Converter
	serviceMetrics *metrics.Metrics
	rateLimiter    *ratelimit.Limiter
	startTime      time.Time
}

// HandlerConfig bundles the collaborators handlers depend on
type HandlerConfig struct {
	Logger        *logrus.Logger
	Configuration *config.Config
	Table         *rates.Table
	Converter     *service.Converter
	Metrics       *metrics.Metrics
	RateLimiter   *ratelimit.Limiter
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	return &Handlers{
		logger:         handlerConfig.Logger,
		configuration:  handlerConfig.Configuration,
		table:          handlerConfig.Table,
		converter:      handlerConfig.Converter,
		serviceMetrics: handlerConfig.Metrics,
		rateLimiter:    handlerConfig.RateLimiter,
		startTime:      time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Observability first so every request is counted and timed, even when
	// a later middleware aborts it
	router.Use(middleware.Observability(handlers.logger, handlers.serviceMetrics))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(handlers.corsMiddleware())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimitMiddleware())
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/", handlers.Welcome)
	router.GET("/currencies", handlers.ListCurrencies)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		handlers.serviceMetrics.Registry(),
		promhttp.HandlerOpts{},
	)))
	router.POST("/convert", handlers.Convert)

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	healthCheckResponse := models.HealthCheck{
		Status:        "healthy",
		Service:       handlers.configuration.ServiceName,
		Version:       handlers.configuration.ServiceVersion,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(handlers.startTime).Seconds(),
	}

	context.JSON(http.StatusOK, healthCheckResponse)
}

// Welcome returns the API description and route map
func (handlers *Handlers) Welcome(context *gin.Context) {
	welcomeResponse := models.WelcomeResponse{
		Message: "Welcome to the Forex Converter API",
		Endpoints: map[string]string{
			"/health":     "GET - Service health check",
			"/currencies": "GET - List all supported currencies",
			"/convert":    "POST - Convert between currencies",
			"/metrics":    "GET - Prometheus metrics",
		},
	}

	context.JSON(http.StatusOK, welcomeResponse)
}

// ListCurrencies returns all supported currency codes
func (handlers *Handlers) ListCurrencies(context *gin.Context) {
	currenciesResponse := models.CurrenciesResponse{
		AvailableCurrencies: handlers.table.Codes(),
		BaseCurrency:        rates.BaseCurrency,
		Count:               handlers.table.Count(),
		Timestamp:           time.Now().UTC(),
	}

	context.JSON(http.StatusOK, currenciesResponse)
}

// Convert handles currency conversion requests
func (handlers *Handlers) Convert(context *gin.Context) {
	var conversionRequest models.ConversionRequest
	if bindError := context.ShouldBindJSON(&conversionRequest); bindError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "Malformed conversion request", bindError.Error())
		return
	}

	conversionResult, conversionError := handlers.converter.Convert(
		conversionRequest.Amount,
		conversionRequest.FromCurrency,
		conversionRequest.ToCurrency,
	)
	if conversionError != nil {
		var typedError *service.ConversionError
		if errors.As(conversionError, &typedError) {
			switch typedError.Type {
			case service.ErrorTypeUnsupportedCurrency, service.ErrorTypeInvalidAmount:
				handlers.writeErrorResponse(context, http.StatusBadRequest, typedError.Message, typedError.Error())
				return
			}
		}

		// Internal detail stays in the logs, not the response
		handlers.logger.Errorf("Conversion failed: %v", conversionError)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "Internal conversion error", "conversion could not be completed")
		return
	}

	context.JSON(http.StatusOK, conversionResult)
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	errorResponse := models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	}

	context.JSON(statusCode, errorResponse)
}

// corsMiddleware adds CORS headers using Gin middleware
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*")
		context.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		context.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if context.Request.Method == "OPTIONS" {
			context.AbortWithStatus(http.StatusOK)
			return
		}

		context.Next()
	}
}

// rateLimitMiddleware provides rate limiting using Gin middleware
func (handlers *Handlers) rateLimitMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := handlers.rateLimiter.GetClientIP(context.Request)

		if !handlers.rateLimiter.Allow(clientIP) {
			handlers.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Configuration.RateLimitRequests))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(handlers.rateLimiter.Configuration.RateLimitWindow).Unix(), 10))
			context.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			context.Abort()
			return
		}

		context.Next()
	}
}
