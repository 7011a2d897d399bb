package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type auditRoute struct {
	method   string
	fullPath string
}

var auditedRoutes = map[auditRoute]domain.AuditAction{
	{http.MethodPost, "/api/v1/accounts"}:                      domain.AuditActionAccountCreate,
	{http.MethodDelete, "/api/v1/accounts/:country_id"}:        domain.AuditActionAccountDelete,
	{http.MethodPut, "/api/v1/accounts/:country_id/deposit"}:   domain.AuditActionDeposit,
	{http.MethodPut, "/api/v1/accounts/:country_id/withdraw"}:  domain.AuditActionWithdrawal,
	{http.MethodPost, "/api/v1/accounts/:country_id/transfer"}: domain.AuditActionTransfer,
	{http.MethodPut, "/api/v1/accounts/:country_id/lock"}:      domain.AuditActionLock,
	{http.MethodPut, "/api/v1/accounts/:country_id/unlock"}:    domain.AuditActionUnlock,
	{http.MethodPost, "/api/v1/accounts/:country_id/verify"}:   domain.AuditActionVerify,
}

// AuditLog creates an audit middleware that logs successful write operations.
// Routes are matched on their registered pattern, not the raw URL.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}

		action, ok := auditedRoutes[auditRoute{c.Request.Method, c.FullPath()}]
		if !ok {
			return
		}

		resourceID := c.Param("country_id")
		if resourceID == "" {
			resourceID = c.GetString(CtxAuditResourceID)
		}

		details, _ := json.Marshal(map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(response.CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Actor:        c.GetString(CtxSubject),
			Action:       action,
			ResourceType: "account",
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}
