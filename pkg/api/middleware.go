package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// loggingMiddleware provides structured request logging.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		s.logger.Info("http request",
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"ip", param.ClientIP,
			"error", param.ErrorMessage,
		)
		return ""
	})
}

// corsMiddleware configures CORS based on application configuration.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	if !s.config.API.Cors.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	corsConfig := cors.Config{
		AllowOrigins:     s.config.API.Cors.AllowedOrigins,
		AllowMethods:     s.config.API.Cors.AllowedMethods,
		AllowHeaders:     s.config.API.Cors.AllowedHeaders,
		AllowCredentials: s.config.API.Cors.AllowCredentials,
		MaxAge:           time.Duration(s.config.API.Cors.MaxAge) * time.Second,
	}

	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}

	return cors.New(corsConfig)
}

// securityMiddleware adds standard security headers.
func (s *Server) securityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

// rateLimitMiddleware throttles requests per client IP.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		mu.Lock()
		limiter, exists := limiters[clientIP]
		if !exists {
			limiter = rate.NewLimiter(
				rate.Limit(s.config.API.RateLimit.RequestsPer)/rate.Limit(s.config.API.RateLimit.Duration.Seconds()),
				s.config.API.RateLimit.BurstSize,
			)
			limiters[clientIP] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"retry_after": int(s.config.API.RateLimit.Duration.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
