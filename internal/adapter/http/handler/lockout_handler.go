package handler

import (
	"bank-account-service/internal/adapter/http/dto"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// LockoutHandler exposes the account lockout state machine.
type LockoutHandler struct {
	lockoutSvc ports.LockoutService
}

// NewLockoutHandler creates a new LockoutHandler.
func NewLockoutHandler(lockoutSvc ports.LockoutService) *LockoutHandler {
	return &LockoutHandler{lockoutSvc: lockoutSvc}
}

// Verify handles POST /api/v1/accounts/:country_id/verify. A wrong
// password or a locked account is rendered as an error.
func (h *LockoutHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.lockoutSvc.VerifyCredential(c.Request.Context(), c.Param("country_id"), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := result.Err(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Lock handles PUT /api/v1/accounts/:country_id/lock.
func (h *LockoutHandler) Lock(c *gin.Context) {
	var req dto.LockRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := h.lockoutSvc.Lock(c.Request.Context(), c.Param("country_id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Unlock handles PUT /api/v1/accounts/:country_id/unlock.
func (h *LockoutHandler) Unlock(c *gin.Context) {
	status, err := h.lockoutSvc.Unlock(c.Request.Context(), c.Param("country_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Status handles GET /api/v1/accounts/:country_id/status.
func (h *LockoutHandler) Status(c *gin.Context) {
	status, err := h.lockoutSvc.Status(c.Request.Context(), c.Param("country_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}
