// Package router builds the gin engine and mounts module routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"campaign_bridge_backend/platform/config"
	"campaign_bridge_backend/platform/httpkit"
	"campaign_bridge_backend/platform/logger"
	"golang.org/x/time/rate"
)

// Module is a bounded context that registers its own routes.
type Module interface {
	Name() string
	RegisterRoutes(g *gin.RouterGroup)
}

// New builds the HTTP engine with shared middleware and mounts all modules
// under /api/v1.
func New(cfg config.HTTPConfig, log *logger.Logger, modules ...Module) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(log))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Company-Token", "X-Tenant-ID", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.GetCORSOrigins()
	}
	engine.Use(cors.New(corsConfig))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(50), 100, log)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	for _, m := range modules {
		m.RegisterRoutes(v1)
		log.Info("module routes registered", "module", m.Name())
	}

	return engine
}
