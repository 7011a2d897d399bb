package ports

import (
	"context"
	"time"

	"bank-account-service/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles banking password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for API callers.
type TokenService interface {
	Generate(subject, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// IdempotencyCache is the Redis-layer idempotency check.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AuditService records audited actions without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// LockoutService is the account lockout state machine.
type LockoutService interface {
	// VerifyCredential checks a banking password. The error is non-nil only
	// for a missing account or a storage failure; a wrong password or a
	// locked account is reported through the result.
	VerifyCredential(ctx context.Context, countryID, password string) (*domain.CredentialResult, error)
	Lock(ctx context.Context, countryID, reason string) (*domain.LockStatus, error)
	Unlock(ctx context.Context, countryID string) (*domain.LockStatus, error)
	Status(ctx context.Context, countryID string) (*domain.LockStatus, error)
}

// BalanceService applies balance mutations paired with transaction records.
type BalanceService interface {
	Deposit(ctx context.Context, req MutationRequest) (*MutationResult, error)
	Withdraw(ctx context.Context, req MutationRequest) (*MutationResult, error)
	Transfer(ctx context.Context, req TransferRequest) (*MutationResult, error)
}

// MutationRequest holds validated input for a deposit or withdrawal.
type MutationRequest struct {
	CountryID      string
	Email          string
	Password       string
	Amount         int64
	IdempotencyKey string // optional
}

// TransferRequest moves Amount from FromCountryID to ToCountryID.
type TransferRequest struct {
	FromCountryID  string
	ToCountryID    string
	Email          string
	Password       string
	Amount         int64
	IdempotencyKey string
}

// MutationResult is the new balance and the record written for it.
type MutationResult struct {
	CountryID   string              `json:"country_id"`
	Balance     int64               `json:"balance"`
	Transaction *domain.Transaction `json:"transaction"`
}

// AccountService handles account opening, lookup and closure.
type AccountService interface {
	Create(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
	Get(ctx context.Context, countryID string) (*AccountDetails, error)
	List(ctx context.Context, params AccountListParams) ([]domain.Account, error)
	Delete(ctx context.Context, countryID string) error
}

// CreateAccountRequest holds validated input for opening an account.
type CreateAccountRequest struct {
	CountryID            string
	Name                 string
	Email                string
	BirthDate            time.Time
	DebitCardType        string
	Password             string
	PasswordConfirmation string
	InitialDeposit       int64
}

// AccountDetails is an account with its transaction count.
type AccountDetails struct {
	Account          *domain.Account
	TransactionCount int64
}

// HistoryService answers transaction history and summary queries.
type HistoryService interface {
	History(ctx context.Context, countryID string, filter HistoryFilter, page, pageSize int) (*HistoryPage, error)
	Recent(ctx context.Context, countryID string) ([]domain.Transaction, error)
	Summary(ctx context.Context, countryID string, from, to *time.Time) (*TransactionSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
}

// HistoryFilter narrows a history query. Nil fields do not filter.
type HistoryFilter struct {
	From      *time.Time
	To        *time.Time
	Type      *domain.TransactionType
	MinAmount *int64
	MaxAmount *int64
}

// HistoryPage is one page of an account's history, newest first.
type HistoryPage struct {
	Transactions      []domain.Transaction `json:"transactions"`
	TotalTransactions int64                `json:"total_transactions"`
	TotalPages        int                  `json:"total_pages"`
	CurrentPage       int                  `json:"current_page"`
	PageSize          int                  `json:"page_size"`
}

// TransactionSummary aggregates amounts and counts per transaction type.
type TransactionSummary struct {
	TotalTransactions int64 `json:"total_transactions"`
	TotalDeposits     int64 `json:"total_deposits"`
	TotalWithdrawals  int64 `json:"total_withdrawals"`
	TotalTransfersIn  int64 `json:"total_transfers_in"`
	TotalTransfersOut int64 `json:"total_transfers_out"`
	DepositCount      int64 `json:"deposit_count"`
	WithdrawalCount   int64 `json:"withdrawal_count"`
	TransferInCount   int64 `json:"transfer_in_count"`
	TransferOutCount  int64 `json:"transfer_out_count"`
}
