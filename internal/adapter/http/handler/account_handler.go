package handler

import (
	"bank-account-service/internal/adapter/http/dto"
	"bank-account-service/internal/adapter/http/middleware"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account opening, lookup and closure.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	var q dto.AccountListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accounts, err := h.accountSvc.List(c.Request.Context(), ports.AccountListParams{
		MinBalance: q.BalanceMin,
		MaxBalance: q.BalanceMax,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.AccountListResponse{
		Accounts: make([]dto.AccountResponse, 0, len(accounts)),
		Count:    len(accounts),
	}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, dto.NewAccountResponse(&accounts[i]))
	}
	response.OK(c, resp)
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountSvc.Create(c.Request.Context(), req.ToPort())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxAuditResourceID, account.CountryID)
	response.Created(c, dto.NewAccountResponse(account))
}

// Get handles GET /api/v1/accounts/:country_id.
func (h *AccountHandler) Get(c *gin.Context) {
	details, err := h.accountSvc.Get(c.Request.Context(), c.Param("country_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.NewAccountResponse(details.Account)
	resp.TransactionCount = &details.TransactionCount
	response.OK(c, resp)
}

// Delete handles DELETE /api/v1/accounts/:country_id.
func (h *AccountHandler) Delete(c *gin.Context) {
	countryID := c.Param("country_id")
	if err := h.accountSvc.Delete(c.Request.Context(), countryID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"country_id": countryID, "deleted": true})
}

// bindJSON binds and sanitizes the request body, rendering a validation
// error on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.SanitizeStruct(req)
	return true
}
