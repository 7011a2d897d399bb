package handler

import (
	"net/http"

	"bank-account-service/internal/adapter/http/dto"
	"bank-account-service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings every dependency and reports 503 if any is down.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := dto.HealthResponse{Status: "healthy", Checks: make(map[string]string, len(checkers))}
		httpCode := http.StatusOK

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				resp.Checks[checker.Name()] = "unhealthy: " + err.Error()
				resp.Status = "degraded"
				httpCode = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[checker.Name()] = "healthy"
		}

		c.JSON(httpCode, resp)
	}
}
