package handler

import (
	"bank-account-service/internal/adapter/http/dto"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler serves transaction history queries.
type TransactionHandler struct {
	historySvc ports.HistoryService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(historySvc ports.HistoryService) *TransactionHandler {
	return &TransactionHandler{historySvc: historySvc}
}

// History handles GET /api/v1/accounts/:country_id/transactions.
func (h *TransactionHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	page, err := h.historySvc.History(c.Request.Context(), c.Param("country_id"), q.Filter(), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Recent handles GET /api/v1/accounts/:country_id/transactions/recent.
func (h *TransactionHandler) Recent(c *gin.Context) {
	countryID := c.Param("country_id")
	txns, err := h.historySvc.Recent(c.Request.Context(), countryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RecentResponse{CountryID: countryID, Transactions: txns})
}

// Summary handles GET /api/v1/accounts/:country_id/transactions/summary.
func (h *TransactionHandler) Summary(c *gin.Context) {
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	countryID := c.Param("country_id")
	from, to := dto.ParseDateBound(q.StartDate), dto.ParseDateBound(q.EndDate)
	summary, err := h.historySvc.Summary(c.Request.Context(), countryID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SummaryResponse{
		CountryID: countryID,
		StartDate: from,
		EndDate:   to,
		Summary:   summary,
	})
}

// Get handles GET /api/v1/transactions/:transaction_id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("transaction_id"))
	if err != nil {
		response.Error(c, apperror.Validation("transaction_id must be a UUID"))
		return
	}

	txn, err := h.historySvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}
