package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `country_id, name, email, birth_date, debit_card_type, balance, password_hash,
		is_locked, locked_reason, locked_at, failed_login_attempts, last_failed_login, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account within a database transaction.
// A taken country id or email yields ports.ErrDuplicateKey.
func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, query,
		a.CountryID, a.Name, a.Email, a.BirthDate, a.DebitCardType, a.Balance, a.PasswordHash,
		a.IsLocked, a.LockedReason, a.LockedAt, a.FailedLoginAttempts, a.LastFailedLogin,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert account", err)
	}
	return nil
}

// GetByCountryID fetches an account without locking. Returns nil, nil when absent.
func (r *AccountRepo) GetByCountryID(ctx context.Context, countryID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE country_id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, countryID))
	if err != nil {
		return nil, fmt.Errorf("get account by country id: %w", err)
	}
	return a, nil
}

// GetByEmail fetches an account by email, ignoring case. Returns nil, nil
// when absent.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// GetByCountryIDForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByCountryIDForUpdate(ctx context.Context, tx pgx.Tx, countryID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE country_id = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, countryID))
	if err != nil {
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// List returns accounts whose balance lies within the optional bounds.
func (r *AccountRepo) List(ctx context.Context, params ports.AccountListParams) ([]domain.Account, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.MinBalance != nil {
		conditions = append(conditions, fmt.Sprintf("balance >= $%d", argIdx))
		args = append(args, *params.MinBalance)
		argIdx++
	}
	if params.MaxBalance != nil {
		conditions = append(conditions, fmt.Sprintf("balance <= $%d", argIdx))
		args = append(args, *params.MaxBalance)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateBalance sets an account's balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, countryID string, balance int64) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE country_id = $2`

	tag, err := tx.Exec(ctx, query, balance, countryID)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", countryID)
	}
	return nil
}

// UpdateSecurity writes the lockout fields of a within a transaction.
func (r *AccountRepo) UpdateSecurity(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts SET is_locked = $1, locked_reason = $2, locked_at = $3,
		failed_login_attempts = $4, last_failed_login = $5, updated_at = $6
		WHERE country_id = $7`

	tag, err := tx.Exec(ctx, query,
		a.IsLocked, a.LockedReason, a.LockedAt,
		a.FailedLoginAttempts, a.LastFailedLogin, a.UpdatedAt,
		a.CountryID,
	)
	if err != nil {
		return fmt.Errorf("update account security: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", a.CountryID)
	}
	return nil
}

// Delete removes an account. Its transactions are kept.
func (r *AccountRepo) Delete(ctx context.Context, countryID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE country_id = $1`, countryID)
	if err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanAccount reads one account row. pgx.ErrNoRows yields nil, nil.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.CountryID, &a.Name, &a.Email, &a.BirthDate, &a.DebitCardType, &a.Balance, &a.PasswordHash,
		&a.IsLocked, &a.LockedReason, &a.LockedAt, &a.FailedLoginAttempts, &a.LastFailedLogin,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}
