package server

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-dl/internal/ratelimit"
	"social-dl/internal/service"
)

const msgRateLimited = "Muitas requisições. Tente novamente em alguns instantes."

// SetupRouter creates and configures the Gin router. limiter may be nil to
// disable admission control.
func SetupRouter(api *API, limiter *ratelimit.Limiter, logger *log.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(recoveryMiddleware(logger))
	r.Use(requestIDMiddleware())
	r.Use(corsMiddleware())
	r.Use(accessLogMiddleware(logger))

	r.GET("/", api.Root)
	r.GET("/health", api.Health)
	r.GET("/status", api.Status)

	media := r.Group("/")
	if limiter != nil {
		media.Use(rateLimitMiddleware(limiter, logger))
	}
	{
		media.POST("/metadata", api.Metadata)
		media.POST("/download", api.Download)
	}

	r.NoRoute(api.NotFound)

	return r
}

// corsMiddleware handles CORS for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware propagates X-Request-ID or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// recoveryMiddleware turns panics into the generic 500 body.
func recoveryMiddleware(logger *log.Logger) gin.HandlerFunc {
	logger = logger.WithPrefix("api")
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic", "path", c.Request.URL.Path, "error", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: service.MsgInternal})
	})
}

func accessLogMiddleware(logger *log.Logger) gin.HandlerFunc {
	logger = logger.WithPrefix("http")
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetString("request_id"),
		)
	}
}

// rateLimitMiddleware enforces the per-client-IP quota. Store failures let
// the request through.
func rateLimitMiddleware(limiter *ratelimit.Limiter, logger *log.Logger) gin.HandlerFunc {
	logger = logger.WithPrefix("ratelimit")
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("admission check failed, allowing request", "error", err)
			c.Next()
			return
		}

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Limit(), 10))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

		if !d.Allowed {
			secs := d.RetryAfterSeconds()
			c.Writer.Header().Set("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:      msgRateLimited,
				RetryAfter: secs,
			})
			return
		}

		c.Next()
	}
}
