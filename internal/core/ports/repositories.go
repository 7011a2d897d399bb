package ports

import (
	"context"
	"errors"
	"time"

	"bank-account-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrDuplicateKey is returned by repositories when a unique constraint
// rejects an insert.
var ErrDuplicateKey = errors.New("duplicate key")

// AccountRepository defines persistence operations for bank accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByCountryID(ctx context.Context, countryID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByCountryIDForUpdate(ctx context.Context, tx pgx.Tx, countryID string) (*domain.Account, error)
	List(ctx context.Context, params AccountListParams) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, countryID string, balance int64) error
	// UpdateSecurity persists the lockout fields of the account.
	UpdateSecurity(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, countryID string) (bool, error)
}

// AccountListParams bounds the balance of listed accounts. Nil bounds are open.
type AccountListParams struct {
	MinBalance *int64
	MaxBalance *int64
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// ListByAccount returns the account's transactions newest first,
	// restricted to [from, to] when either bound is set. Ties on CreatedAt
	// are broken the same way as ListRecent.
	ListByAccount(ctx context.Context, countryID string, from, to *time.Time) ([]domain.Transaction, error)
	ListRecent(ctx context.Context, countryID string, limit int) ([]domain.Transaction, error)
	CountByAccount(ctx context.Context, countryID string) (int64, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
