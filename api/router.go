package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/sitesearch/api/handlers"
	"github.com/meghashyamc/sitesearch/config"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/metrics"
	"github.com/meghashyamc/sitesearch/services/index"
	"github.com/meghashyamc/sitesearch/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, cfg *config.Config, indexService *index.Service, m *metrics.Metrics, validator *validation.Validator) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handlers.SetupIndex(router, logger, indexService, handlers.IndexDefaultsFromConfig(cfg), validator)
	handlers.SetupArtifact(router, logger, indexService)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
