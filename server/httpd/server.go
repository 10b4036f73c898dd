package httpd

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KerianM/music-search-api/server"
)

// NewEngine builds the gin engine with recovery, request logging and optional
// rate limiting, then registers all routes. Pass a nil limiter to disable
// rate limiting.
func NewEngine(h *Handler, limiter *RateLimiter, logger server.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	h.Register(r)
	return r
}

func requestLogger(logger server.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client", c.ClientIP(),
		)
	}
}
