package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tabkit/observability"
	"github.com/kbukum/tabkit/recipe"
	"github.com/kbukum/tabkit/storage"
)

// healthProbe is looked up, never written, by StorageCheck.
const healthProbe = ".tabkit-health"

// Health returns a handler that reports service health including component
// statuses. A service that is down answers 503.
func Health(service, version string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.CheckHealth(c.Request.Context(), service, version, checkers...)
		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}

// StorageCheck reports the storage backend as down when it cannot answer an
// existence query.
func StorageCheck(s storage.Storage) observability.HealthChecker {
	return observability.HealthCheckFunc(func(ctx context.Context) observability.Health {
		h := observability.Health{Name: "storage", Status: observability.HealthStatusUp}
		if _, err := s.Exists(ctx, healthProbe); err != nil {
			h.Status = observability.HealthStatusDown
			h.Message = err.Error()
		}
		return h
	})
}

// RecipesCheck reports the recipe directories as degraded when they cannot
// be listed.
func RecipesCheck(runner *recipe.Runner) observability.HealthChecker {
	return observability.HealthCheckFunc(func(_ context.Context) observability.Health {
		h := observability.Health{Name: "recipes", Status: observability.HealthStatusUp}
		list, err := runner.Recipes()
		if err != nil {
			h.Status = observability.HealthStatusDegraded
			h.Message = err.Error()
			return h
		}
		if len(list) == 0 {
			h.Status = observability.HealthStatusDegraded
			h.Message = "no recipes found"
		}
		return h
	})
}
