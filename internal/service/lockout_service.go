package service

import (
	"context"
	"fmt"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// LockoutServiceImpl implements ports.LockoutService.
// Every transition runs in a DB transaction holding the account row.
type LockoutServiceImpl struct {
	accountRepo ports.AccountRepository
	hashSvc     ports.HashService
	transactor  ports.DBTransactor
	maxAttempts int
	now         func() time.Time
	log         zerolog.Logger
}

// NewLockoutService creates a new LockoutServiceImpl. maxAttempts below 1
// falls back to domain.MaxFailedLoginAttempts.
func NewLockoutService(
	accountRepo ports.AccountRepository,
	hashSvc ports.HashService,
	transactor ports.DBTransactor,
	maxAttempts int,
	log zerolog.Logger,
) *LockoutServiceImpl {
	if maxAttempts < 1 {
		maxAttempts = domain.MaxFailedLoginAttempts
	}
	return &LockoutServiceImpl{
		accountRepo: accountRepo,
		hashSvc:     hashSvc,
		transactor:  transactor,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// VerifyCredential checks password against the account's hash and moves the
// lockout state machine. A locked account is reported without evaluating
// the password.
func (s *LockoutServiceImpl) VerifyCredential(ctx context.Context, countryID, password string) (*domain.CredentialResult, error) {
	account, err := s.accountRepo.GetByCountryID(ctx, countryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	if account.IsLocked {
		return &domain.CredentialResult{Locked: true}, nil
	}

	// bcrypt runs before the row lock is taken.
	match, err := s.hashSvc.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}

	var result *domain.CredentialResult
	err = s.withLockedAccount(ctx, countryID, func(a *domain.Account) bool {
		if a.IsLocked {
			result = &domain.CredentialResult{Locked: true}
			return false
		}

		if match {
			result = &domain.CredentialResult{Success: true}
			if a.FailedLoginAttempts == 0 && a.LastFailedLogin == nil {
				return false
			}
			a.ResetFailedLogins(s.now())
			return true
		}

		remaining := a.RegisterFailedLogin(s.maxAttempts, s.now())
		result = &domain.CredentialResult{Locked: a.IsLocked, RemainingAttempts: remaining}
		return true
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.Success:
		s.log.Debug().Str("country_id", countryID).Msg("credential verified")
	case result.Locked && !match:
		s.log.Warn().Str("country_id", countryID).Int("max_attempts", s.maxAttempts).Msg("account locked after failed logins")
	default:
		s.log.Info().Str("country_id", countryID).Int("remaining_attempts", result.RemainingAttempts).Msg("wrong banking password")
	}

	return result, nil
}

// Lock forces the account into LOCKED with reason.
func (s *LockoutServiceImpl) Lock(ctx context.Context, countryID, reason string) (*domain.LockStatus, error) {
	var status domain.LockStatus
	err := s.withLockedAccount(ctx, countryID, func(a *domain.Account) bool {
		a.Lock(reason, s.now())
		status = a.LockStatus()
		return true
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("country_id", countryID).Str("reason", reason).Msg("account locked")
	return &status, nil
}

// Unlock forces the account into UNLOCKED and resets the failure counter.
func (s *LockoutServiceImpl) Unlock(ctx context.Context, countryID string) (*domain.LockStatus, error) {
	var status domain.LockStatus
	err := s.withLockedAccount(ctx, countryID, func(a *domain.Account) bool {
		a.Unlock(s.now())
		status = a.LockStatus()
		return true
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("country_id", countryID).Msg("account unlocked")
	return &status, nil
}

// Status returns the lockout fields without side effects.
func (s *LockoutServiceImpl) Status(ctx context.Context, countryID string) (*domain.LockStatus, error) {
	account, err := s.accountRepo.GetByCountryID(ctx, countryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	status := account.LockStatus()
	return &status, nil
}

// withLockedAccount loads the account FOR UPDATE and runs fn. When fn
// reports a change the lockout fields are written and the transaction
// committed; otherwise it is rolled back.
func (s *LockoutServiceImpl) withLockedAccount(
	ctx context.Context,
	countryID string,
	fn func(a *domain.Account) bool,
) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByCountryIDForUpdate(ctx, dbTx, countryID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return apperror.ErrAccountNotFound()
	}

	if !fn(account) {
		return nil
	}

	if err := s.accountRepo.UpdateSecurity(ctx, dbTx, account); err != nil {
		return apperror.InternalError(fmt.Errorf("update security: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
