// Package memory is an in-process implementation of the storage ports.
// It backs local runs without PostgreSQL and the service tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

var errTxDone = errors.New("memory: transaction already closed")

// Store holds all tables. Transactions are serialized by txSem, which
// stands in for PostgreSQL row locks.
type Store struct {
	mu       sync.RWMutex
	txSem    chan struct{}
	accounts map[string]*accountRow
	txns     []*transactionRow
	audit    []auditRow
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		txSem:    make(chan struct{}, 1),
		accounts: make(map[string]*accountRow),
	}
}

// Transactor implements ports.DBTransactor over a Store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a new Transactor.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin blocks until no other transaction is open.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	select {
	case t.store.txSem <- struct{}{}:
		return &memTx{store: t.store}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("begin transaction: %w", ctx.Err())
	}
}

// memTx records undo steps for writes made through it. Only Commit and
// Rollback are supported; the embedded pgx.Tx is nil.
type memTx struct {
	pgx.Tx
	store *Store
	undo  []func()
	done  bool
}

func (tx *memTx) Commit(_ context.Context) error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	tx.undo = nil
	<-tx.store.txSem
	return nil
}

func (tx *memTx) Rollback(_ context.Context) error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.store.mu.Lock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.store.mu.Unlock()

	tx.undo = nil
	<-tx.store.txSem
	return nil
}

// onRollback registers fn to run, under store.mu, if tx is rolled back.
func onRollback(tx pgx.Tx, fn func()) {
	if mt, ok := tx.(*memTx); ok {
		mt.undo = append(mt.undo, fn)
	}
}

// HealthChecker implements ports.HealthChecker for the in-memory store.
type HealthChecker struct{}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker() *HealthChecker { return &HealthChecker{} }

func (h *HealthChecker) Ping(_ context.Context) error { return nil }
func (h *HealthChecker) Name() string                 { return "memory" }
