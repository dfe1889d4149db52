package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/api/handlers"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/services/catalog"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, catalogService *catalog.Service, searchService *search.Service, validator *validation.Validator) {
	router.GET("/health", health())

	handlers.SetupEntities(router, logger, catalogService, validator)
	handlers.SetupSearch(router, logger, searchService, validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
