package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bank-account-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, country_id, transaction_type, amount, balance_before, balance_after,
		description, counterparty_country_id, status, created_at, updated_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.CountryID, t.Type, t.Amount, t.BalanceBefore, t.BalanceAfter,
		t.Description, t.CounterpartyCountryID, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert transaction", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID. Returns nil, nil when absent.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := scanTransaction(r.pool.QueryRow(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// ListByAccount returns the account's transactions, restricted to the
// inclusive range [from, to] when either bound is set.
// newestFirst orders by time and breaks ties on id so History and
// ListRecent agree.
const newestFirst = " ORDER BY created_at DESC, id DESC"

func (r *TransactionRepo) ListByAccount(ctx context.Context, countryID string, from, to *time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE country_id = $1`
	args := []any{countryID}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += newestFirst

	return r.list(ctx, "list transactions by account", query, args...)
}

// ListRecent returns up to limit transactions, newest first.
func (r *TransactionRepo) ListRecent(ctx context.Context, countryID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE country_id = $1` + newestFirst + ` LIMIT $2`

	return r.list(ctx, "list recent transactions", query, countryID, limit)
}

// CountByAccount counts all transactions of an account.
func (r *TransactionRepo) CountByAccount(ctx context.Context, countryID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE country_id = $1`, countryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *TransactionRepo) list(ctx context.Context, op, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txns, nil
}

func scanTransaction(row pgx.Row, t *domain.Transaction) error {
	return row.Scan(
		&t.ID, &t.CountryID, &t.Type, &t.Amount, &t.BalanceBefore, &t.BalanceAfter,
		&t.Description, &t.CounterpartyCountryID, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}
