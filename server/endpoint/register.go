package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/tabkit/observability"
	"github.com/kbukum/tabkit/recipe"
	"github.com/kbukum/tabkit/storage"
)

// API bundles what the routes need. Storage and Metrics may be nil.
type API struct {
	Service string
	Version string
	Runner  *recipe.Runner
	Storage storage.Storage
	Metrics *observability.Metrics
}

// Register mounts every tabkit route on r.
func Register(r gin.IRouter, api API) {
	checkers := []observability.HealthChecker{RecipesCheck(api.Runner)}
	var downloader storage.Downloader
	if api.Storage != nil {
		checkers = append(checkers, StorageCheck(api.Storage))
		downloader = api.Storage
	}

	r.GET("/health", Health(api.Service, api.Version, checkers...))
	r.GET("/version", Version(api.Service))

	v1 := r.Group("/v1")
	v1.GET("/recipes", ListRecipes(api.Runner))
	v1.POST("/recipes/:name/apply", ApplyRecipe(api.Runner))
	v1.POST("/recipes/:name/run", RunRecipe(api.Runner))
	v1.POST("/select", Select(downloader, api.Metrics))
}
