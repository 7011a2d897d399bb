package dto

import (
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
)

// DateLayout is the calendar date format used for birth dates and date
// filters.
const DateLayout = "2006-01-02"

// CreateAccountRequest is the request body for opening an account.
// Tier and minimum deposit are checked by the account service.
type CreateAccountRequest struct {
	CountryID       string `json:"country_id" binding:"required,safe_id,max=64"`
	Name            string `json:"name" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email,max=254"`
	BirthDate       string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	DebitCardType   string `json:"debit_card_type" binding:"required"`
	DepositMoney    *int64 `json:"deposit_money" binding:"required,min=0"`
	Password        string `json:"password" binding:"required,strong_password" sanitize:"-"`
	PasswordConfirm string `json:"password_confirm" binding:"required" sanitize:"-"`
}

// ToPort converts the request into the service input. BirthDate must
// already have passed validation.
func (r *CreateAccountRequest) ToPort() ports.CreateAccountRequest {
	birth, _ := time.Parse(DateLayout, r.BirthDate)
	return ports.CreateAccountRequest{
		CountryID:            r.CountryID,
		Name:                 r.Name,
		Email:                r.Email,
		BirthDate:            birth,
		DebitCardType:        r.DebitCardType,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirm,
		InitialDeposit:       *r.DepositMoney,
	}
}

// DepositRequest is the request body for a deposit. Amount sign is checked
// by the balance service.
type DepositRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required" sanitize:"-"`
	DepositedMoney *int64 `json:"deposited_money" binding:"required"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required" sanitize:"-"`
	RetrievedMoney *int64 `json:"retrieved_money" binding:"required"`
}

// TransferRequest is the request body for a transfer from the path account.
type TransferRequest struct {
	ToCountryID string `json:"to_country_id" binding:"required,safe_id,max=64"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required" sanitize:"-"`
	Amount      *int64 `json:"amount" binding:"required"`
}

// VerifyRequest is the request body for a credential check.
type VerifyRequest struct {
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// LockRequest is the request body for an administrative lock.
type LockRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// AccountListQuery is the balance range filter for listing accounts.
type AccountListQuery struct {
	BalanceMin *int64 `form:"balance_min" binding:"omitempty,min=0"`
	BalanceMax *int64 `form:"balance_max" binding:"omitempty,min=0"`
}

// HistoryQuery holds the transaction history query parameters.
type HistoryQuery struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=100"`
	StartDate       string `form:"start_date" binding:"omitempty,date_bound"`
	EndDate         string `form:"end_date" binding:"omitempty,date_bound"`
	TransactionType string `form:"transaction_type" binding:"omitempty,oneof=deposit withdrawal transfer_in transfer_out"`
	MinAmount       *int64 `form:"min_amount" binding:"omitempty,min=0"`
	MaxAmount       *int64 `form:"max_amount" binding:"omitempty,min=0"`
}

// Filter converts the query into a history filter. Dates must already
// have passed validation.
func (q *HistoryQuery) Filter() ports.HistoryFilter {
	f := ports.HistoryFilter{
		From:      ParseDateBound(q.StartDate),
		To:        ParseDateBound(q.EndDate),
		MinAmount: q.MinAmount,
		MaxAmount: q.MaxAmount,
	}
	if q.TransactionType != "" {
		typ := domain.TransactionType(q.TransactionType)
		f.Type = &typ
	}
	return f
}

// SummaryQuery holds the optional summary period.
type SummaryQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,date_bound"`
	EndDate   string `form:"end_date" binding:"omitempty,date_bound"`
}

// ParseDateBound accepts RFC 3339 timestamps or calendar dates, which
// denote midnight UTC. It returns nil for empty or unparsable input.
func ParseDateBound(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	CountryID        string            `json:"country_id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	BirthDate        string            `json:"birth_date"`
	DebitCardType    string            `json:"debit_card_type"`
	Balance          int64             `json:"balance"`
	LockStatus       domain.LockStatus `json:"lock_status"`
	TransactionCount *int64            `json:"transaction_count,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewAccountResponse builds the public view of a.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		CountryID:     a.CountryID,
		Name:          a.Name,
		Email:         a.Email,
		BirthDate:     a.BirthDate.Format(DateLayout),
		DebitCardType: string(a.DebitCardType),
		Balance:       a.Balance,
		LockStatus:    a.LockStatus(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountListResponse wraps a balance range listing.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Count    int               `json:"count"`
}

// SummaryResponse is a transaction summary for a period.
type SummaryResponse struct {
	CountryID string                    `json:"country_id"`
	StartDate *time.Time                `json:"start_date,omitempty"`
	EndDate   *time.Time                `json:"end_date,omitempty"`
	Summary   *ports.TransactionSummary `json:"summary"`
}

// RecentResponse wraps the most recent transactions.
type RecentResponse struct {
	CountryID    string               `json:"country_id"`
	Transactions []domain.Transaction `json:"transactions"`
}

// HealthResponse reports dependency health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
