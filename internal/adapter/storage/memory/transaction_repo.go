package memory

import (
	"context"
	"fmt"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type transactionRow struct {
	txn domain.Transaction
}

// TransactionRepo implements ports.TransactionRepository. Records are kept
// in insertion order and listed from the back, so ties on CreatedAt put
// the later insert first.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

func (r *TransactionRepo) Create(_ context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, row := range r.store.txns {
		if row.txn.ID == t.ID {
			return fmt.Errorf("insert transaction: transactions_pkey: %w", ports.ErrDuplicateKey)
		}
	}
	n := len(r.store.txns)
	r.store.txns = append(r.store.txns, &transactionRow{txn: *t})
	onRollback(tx, func() { r.store.txns = r.store.txns[:n] })
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.txns {
		if row.txn.ID == id {
			t := row.txn
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) ListByAccount(_ context.Context, countryID string, from, to *time.Time) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []domain.Transaction{}
	for i := len(r.store.txns) - 1; i >= 0; i-- {
		t := r.store.txns[i].txn
		if t.CountryID != countryID {
			continue
		}
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TransactionRepo) ListRecent(_ context.Context, countryID string, limit int) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Transaction, 0, limit)
	for i := len(r.store.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if t := r.store.txns[i].txn; t.CountryID == countryID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TransactionRepo) CountByAccount(_ context.Context, countryID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, row := range r.store.txns {
		if row.txn.CountryID == countryID {
			n++
		}
	}
	return n, nil
}
