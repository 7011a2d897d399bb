package handler

import (
	"bank-account-service/internal/adapter/http/dto"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets callers retry a mutation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// BalanceHandler handles deposits, withdrawals and transfers.
type BalanceHandler struct {
	balanceSvc ports.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceSvc ports.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceSvc: balanceSvc}
}

// Deposit handles PUT /api/v1/accounts/:country_id/deposit.
func (h *BalanceHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if !bindJSON(c, &req) {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	result, err := h.balanceSvc.Deposit(c.Request.Context(), ports.MutationRequest{
		CountryID:      c.Param("country_id"),
		Email:          req.Email,
		Password:       req.Password,
		Amount:         *req.DepositedMoney,
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Withdraw handles PUT /api/v1/accounts/:country_id/withdraw.
func (h *BalanceHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if !bindJSON(c, &req) {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	result, err := h.balanceSvc.Withdraw(c.Request.Context(), ports.MutationRequest{
		CountryID:      c.Param("country_id"),
		Email:          req.Email,
		Password:       req.Password,
		Amount:         *req.RetrievedMoney,
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Transfer handles POST /api/v1/accounts/:country_id/transfer.
func (h *BalanceHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	result, err := h.balanceSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		FromCountryID:  c.Param("country_id"),
		ToCountryID:    req.ToCountryID,
		Email:          req.Email,
		Password:       req.Password,
		Amount:         *req.Amount,
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func idempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetHeader(HeaderIdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		response.Error(c, apperror.Validation("Idempotency-Key must be at most 128 characters"))
		return "", false
	}
	return key, true
}
