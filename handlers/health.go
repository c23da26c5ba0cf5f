package handlers

import (
	"net/http"

	"visitcare/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /health with the latest monitor snapshot.
func HealthCheck(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
