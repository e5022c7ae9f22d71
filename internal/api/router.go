package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestObserver is told about every served request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int)
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	AllowedOrigins []string
	Observer       RequestObserver // optional
	Metrics        http.Handler    // served on /metrics when set
}

// NewRouter registers all routes of h on a new gin engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.Logger, cfg.Observer))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", h.Health)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	api.POST("/recipe", h.GenerateRecipe)
	api.GET("/options", h.Options)
	api.GET("/recipes", h.ListRecipes)
	api.POST("/recipes", h.SaveRecipe)
	api.POST("/recipes/exists", h.RecipeExists)
	api.DELETE("/recipes/:id", h.DeleteRecipe)

	return r
}

// RequestLogger logs each request with a request ID, taken from the
// X-Request-ID header or generated, and reports it to observer if non-nil.
func RequestLogger(logger *zap.Logger, observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header("X-Request-ID", rid)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if observer != nil {
			observer.ObserveRequest(c.Request.Method, route, status)
		}

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("http request failed", fields...)
			return
		}
		logger.Info("http request served", fields...)
	}
}
