package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// DefaultIdempotencyTTL is how long a mutation result is replayable.
const DefaultIdempotencyTTL = 24 * time.Hour

// BalanceServiceImpl implements ports.BalanceService.
type BalanceServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	lockout     ports.LockoutService
	idempCache  ports.IdempotencyCache
	transactor  ports.DBTransactor
	idempTTL    time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl. idempCache may be nil.
func NewBalanceService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	lockout ports.LockoutService,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	idempTTL time.Duration,
	log zerolog.Logger,
) *BalanceServiceImpl {
	if idempTTL <= 0 {
		idempTTL = DefaultIdempotencyTTL
	}
	return &BalanceServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		lockout:     lockout,
		idempCache:  idempCache,
		transactor:  transactor,
		idempTTL:    idempTTL,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// Deposit adds req.Amount to the account balance.
func (s *BalanceServiceImpl) Deposit(ctx context.Context, req ports.MutationRequest) (*ports.MutationResult, error) {
	return s.mutate(ctx, req, domain.TransactionTypeDeposit)
}

// Withdraw subtracts req.Amount from the account balance. Overdrafts are rejected.
func (s *BalanceServiceImpl) Withdraw(ctx context.Context, req ports.MutationRequest) (*ports.MutationResult, error) {
	return s.mutate(ctx, req, domain.TransactionTypeWithdrawal)
}

func (s *BalanceServiceImpl) mutate(ctx context.Context, req ports.MutationRequest, typ domain.TransactionType) (*ports.MutationResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if err := s.authorize(ctx, req.CountryID, req.Password); err != nil {
		return nil, err
	}

	idempKey := s.idempotencyKey(req.CountryID, typ, req.IdempotencyKey)
	if cached := s.cachedResult(ctx, idempKey); cached != nil {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByCountryIDForUpdate(ctx, dbTx, req.CountryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	if !emailMatches(account.Email, req.Email) {
		return nil, apperror.ErrEmailMismatch()
	}
	if typ.Sign() < 0 && account.Balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}
	if typ.Sign() > 0 && !account.CanCredit(req.Amount) {
		return nil, apperror.ErrBalanceLimit()
	}

	txn := domain.NewTransaction(account.CountryID, typ, req.Amount, account.Balance, s.now())

	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.CountryID, txn.BalanceAfter); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	result := &ports.MutationResult{
		CountryID:   account.CountryID,
		Balance:     txn.BalanceAfter,
		Transaction: txn,
	}
	s.cacheResult(ctx, idempKey, result)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("country_id", account.CountryID).
		Str("type", string(typ)).
		Int64("amount", req.Amount).
		Int64("balance_after", txn.BalanceAfter).
		Msg("balance mutation applied")

	return result, nil
}

// Transfer moves req.Amount between two accounts in one DB transaction.
// Rows are locked in country id order so opposing transfers cannot deadlock.
func (s *BalanceServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.MutationResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.FromCountryID == req.ToCountryID {
		return nil, apperror.ErrSelfTransfer()
	}
	if err := s.authorize(ctx, req.FromCountryID, req.Password); err != nil {
		return nil, err
	}

	idempKey := s.idempotencyKey(req.FromCountryID, domain.TransactionTypeTransferOut, req.IdempotencyKey)
	if cached := s.cachedResult(ctx, idempKey); cached != nil {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	first, second := req.FromCountryID, req.ToCountryID
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*domain.Account, 2)
	for _, id := range []string{first, second} {
		a, err := s.accountRepo.GetByCountryIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock account %s: %w", id, err))
		}
		if a == nil {
			return nil, apperror.ErrAccountNotFound()
		}
		locked[id] = a
	}
	src, dst := locked[req.FromCountryID], locked[req.ToCountryID]

	if !emailMatches(src.Email, req.Email) {
		return nil, apperror.ErrEmailMismatch()
	}
	if src.Balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}
	if !dst.CanCredit(req.Amount) {
		return nil, apperror.ErrBalanceLimit()
	}

	now := s.now()
	out := domain.NewTransaction(src.CountryID, domain.TransactionTypeTransferOut, req.Amount, src.Balance, now)
	out.CounterpartyCountryID = &dst.CountryID
	in := domain.NewTransaction(dst.CountryID, domain.TransactionTypeTransferIn, req.Amount, dst.Balance, now)
	in.CounterpartyCountryID = &src.CountryID

	for _, txn := range []*domain.Transaction{out, in} {
		if err := s.accountRepo.UpdateBalance(ctx, dbTx, txn.CountryID, txn.BalanceAfter); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	result := &ports.MutationResult{
		CountryID:   src.CountryID,
		Balance:     out.BalanceAfter,
		Transaction: out,
	}
	s.cacheResult(ctx, idempKey, result)

	s.log.Info().
		Str("tx_id", out.ID.String()).
		Str("from", src.CountryID).
		Str("to", dst.CountryID).
		Int64("amount", req.Amount).
		Msg("transfer applied")

	return result, nil
}

// authorize runs the banking password through the lockout state machine.
func (s *BalanceServiceImpl) authorize(ctx context.Context, countryID, password string) error {
	res, err := s.lockout.VerifyCredential(ctx, countryID, password)
	if err != nil {
		return err
	}
	return res.Err()
}

func (s *BalanceServiceImpl) idempotencyKey(countryID string, typ domain.TransactionType, key string) string {
	if key == "" || s.idempCache == nil {
		return ""
	}
	return domain.BuildIdempotencyKey(countryID, typ, key)
}

// cachedResult returns a replayed result, or nil on miss or cache failure.
func (s *BalanceServiceImpl) cachedResult(ctx context.Context, key string) *ports.MutationResult {
	if key == "" {
		return nil
	}
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, processing uncached")
		return nil
	}
	if cached == nil {
		return nil
	}

	var result ports.MutationResult
	if err := json.Unmarshal(cached, &result); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable idempotency entry")
		return nil
	}
	s.log.Info().Str("key", key).Msg("replaying idempotent mutation")
	return &result
}

// cacheResult stores result for replay. Failures only degrade idempotency.
func (s *BalanceServiceImpl) cacheResult(ctx context.Context, key string, result *ports.MutationResult) {
	if key == "" {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to encode mutation result")
		return
	}
	if err := s.idempCache.Set(ctx, key, data, s.idempTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency in redis")
	}
}

func emailMatches(stored, supplied string) bool {
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(supplied))
}
