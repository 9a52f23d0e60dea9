package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tabkit/version"
)

// Version returns a handler that reports build version information.
func Version(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": service,
			"build":   version.Get(),
		})
	}
}
