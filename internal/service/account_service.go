package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	hashSvc     ports.HashService
	transactor  ports.DBTransactor
	now         func() time.Time
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	hashSvc ports.HashService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		hashSvc:     hashSvc,
		transactor:  transactor,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// Create opens an account. The opening deposit is recorded as the
// account's first deposit transaction in the same DB transaction.
func (s *AccountServiceImpl) Create(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	if req.Password != req.PasswordConfirmation {
		return nil, apperror.ErrPasswordConfirmation()
	}

	byEmail, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if byEmail != nil {
		return nil, apperror.ErrEmailTaken()
	}

	byID, err := s.accountRepo.GetByCountryID(ctx, req.CountryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check country id: %w", err))
	}
	if byID != nil {
		return nil, apperror.ErrCountryIDTaken()
	}

	tier, ok := domain.ParseCardTier(req.DebitCardType)
	if !ok {
		return nil, apperror.ErrInvalidCardType()
	}
	if minimum := tier.MinimumDeposit(); req.InitialDeposit < minimum {
		return nil, apperror.ErrMinimumDeposit(tier.DisplayName(), minimum)
	}

	hash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := s.now()
	account := &domain.Account{
		CountryID:     req.CountryID,
		Name:          req.Name,
		Email:         req.Email,
		BirthDate:     req.BirthDate,
		DebitCardType: tier,
		Balance:       req.InitialDeposit,
		PasswordHash:  hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	opening := domain.NewTransaction(account.CountryID, domain.TransactionTypeDeposit, req.InitialDeposit, 0, now)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.accountRepo.Create(ctx, dbTx, account); err != nil {
		// A concurrent request won the race after the checks above.
		if errors.Is(err, ports.ErrDuplicateKey) {
			if strings.Contains(err.Error(), "email") {
				return nil, apperror.ErrEmailTaken()
			}
			return nil, apperror.ErrCountryIDTaken()
		}
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, opening); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record opening deposit: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("country_id", account.CountryID).
		Str("tier", string(tier)).
		Int64("initial_deposit", req.InitialDeposit).
		Msg("account created")

	return account, nil
}

// Get returns the account with its transaction count.
func (s *AccountServiceImpl) Get(ctx context.Context, countryID string) (*ports.AccountDetails, error) {
	account, err := s.accountRepo.GetByCountryID(ctx, countryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	count, err := s.txRepo.CountByAccount(ctx, countryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count transactions: %w", err))
	}

	return &ports.AccountDetails{Account: account, TransactionCount: count}, nil
}

// List returns accounts within the balance range.
func (s *AccountServiceImpl) List(ctx context.Context, params ports.AccountListParams) ([]domain.Account, error) {
	if params.MinBalance != nil && params.MaxBalance != nil && *params.MinBalance > *params.MaxBalance {
		return nil, apperror.Validation("balance_min must not exceed balance_max")
	}

	accounts, err := s.accountRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// Delete closes an account. Its transaction history is retained.
func (s *AccountServiceImpl) Delete(ctx context.Context, countryID string) error {
	deleted, err := s.accountRepo.Delete(ctx, countryID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("delete account: %w", err))
	}
	if !deleted {
		return apperror.ErrAccountNotFound()
	}

	s.log.Info().Str("country_id", countryID).Msg("account deleted")
	return nil
}
