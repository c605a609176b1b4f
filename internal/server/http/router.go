package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig controls router-level behaviour.
type RouterConfig struct {
	Debug      bool
	EnableCORS bool
}

// NewRouter builds the gin engine with all endpoints registered.
func NewRouter(handler *APIHandler, config RouterConfig) *gin.Engine {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if config.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		engine.Use(cors.New(corsConfig))
	}

	engine.GET("/", handler.HandleRoot)
	engine.GET("/healthz", handler.HandleHealth)
	engine.POST("/api/orchestrate", handler.HandleOrchestrate)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}
