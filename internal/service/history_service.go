package service

import (
	"context"
	"fmt"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryServiceImpl implements ports.HistoryService.
type HistoryServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	log         zerolog.Logger
}

// NewHistoryService creates a new HistoryServiceImpl.
func NewHistoryService(accountRepo ports.AccountRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		log:         log,
	}
}

// History returns one page of the account's filtered history, newest first.
// Date bounds are pushed down to the repository; type and amount are
// filtered in memory.
func (s *HistoryServiceImpl) History(ctx context.Context, countryID string, filter ports.HistoryFilter, page, pageSize int) (*ports.HistoryPage, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, countryID); err != nil {
		return nil, err
	}

	txns, err := s.txRepo.ListByAccount(ctx, countryID, filter.From, filter.To)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	matched := FilterTransactions(txns, filter)
	SortNewestFirst(matched)

	page, pageSize = normalizePage(page, pageSize)
	return Paginate(matched, page, pageSize), nil
}

// Recent returns up to RecentTransactionLimit transactions, newest first.
func (s *HistoryServiceImpl) Recent(ctx context.Context, countryID string) ([]domain.Transaction, error) {
	if err := s.ensureAccount(ctx, countryID); err != nil {
		return nil, err
	}

	txns, err := s.txRepo.ListRecent(ctx, countryID, RecentTransactionLimit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list recent transactions: %w", err))
	}
	SortNewestFirst(txns)
	if len(txns) > RecentTransactionLimit {
		txns = txns[:RecentTransactionLimit]
	}
	return txns, nil
}

// Summary aggregates the account's transactions in the optional date range.
func (s *HistoryServiceImpl) Summary(ctx context.Context, countryID string, from, to *time.Time) (*ports.TransactionSummary, error) {
	if err := validateFilter(ports.HistoryFilter{From: from, To: to}); err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, countryID); err != nil {
		return nil, err
	}

	txns, err := s.txRepo.ListByAccount(ctx, countryID, from, to)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return Summarize(FilterTransactions(txns, ports.HistoryFilter{From: from, To: to})), nil
}

// Get returns a single transaction.
func (s *HistoryServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}

func (s *HistoryServiceImpl) ensureAccount(ctx context.Context, countryID string) error {
	account, err := s.accountRepo.GetByCountryID(ctx, countryID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return apperror.ErrAccountNotFound()
	}
	return nil
}

func validateFilter(f ports.HistoryFilter) error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return apperror.Validation("start_date must not be after end_date")
	}
	if f.Type != nil && !f.Type.Valid() {
		return apperror.Validation("unknown transaction type")
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return apperror.Validation("min_amount must not exceed max_amount")
	}
	return nil
}
