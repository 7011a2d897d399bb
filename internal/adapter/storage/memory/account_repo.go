package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

type accountRow struct {
	account domain.Account
}

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	store *Store
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(store *Store) *AccountRepo {
	return &AccountRepo{store: store}
}

func (r *AccountRepo) Create(_ context.Context, tx pgx.Tx, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[account.CountryID]; ok {
		return fmt.Errorf("insert account: accounts_pkey: %w", ports.ErrDuplicateKey)
	}
	for _, row := range r.store.accounts {
		if strings.EqualFold(row.account.Email, account.Email) {
			return fmt.Errorf("insert account: accounts_email_key: %w", ports.ErrDuplicateKey)
		}
	}

	id := account.CountryID
	r.store.accounts[id] = &accountRow{account: *account}
	onRollback(tx, func() { delete(r.store.accounts, id) })
	return nil
}

func (r *AccountRepo) GetByCountryID(_ context.Context, countryID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.accounts[countryID]
	if !ok {
		return nil, nil
	}
	a := row.account
	return &a, nil
}

func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.accounts {
		if strings.EqualFold(row.account.Email, email) {
			a := row.account
			return &a, nil
		}
	}
	return nil, nil
}

// GetByCountryIDForUpdate is a plain read; the open transaction already
// excludes every other writer.
func (r *AccountRepo) GetByCountryIDForUpdate(ctx context.Context, _ pgx.Tx, countryID string) (*domain.Account, error) {
	return r.GetByCountryID(ctx, countryID)
}

func (r *AccountRepo) List(_ context.Context, params ports.AccountListParams) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.store.accounts))
	for _, row := range r.store.accounts {
		a := row.account
		if params.MinBalance != nil && a.Balance < *params.MinBalance {
			continue
		}
		if params.MaxBalance != nil && a.Balance > *params.MaxBalance {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.Account) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.CountryID, b.CountryID)
	})
	return out, nil
}

func (r *AccountRepo) UpdateBalance(_ context.Context, tx pgx.Tx, countryID string, balance int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.accounts[countryID]
	if !ok {
		return fmt.Errorf("update balance: account %s not found", countryID)
	}
	prev := row.account
	row.account.Balance = balance
	onRollback(tx, func() { row.account = prev })
	return nil
}

func (r *AccountRepo) UpdateSecurity(_ context.Context, tx pgx.Tx, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.accounts[account.CountryID]
	if !ok {
		return fmt.Errorf("update security: account %s not found", account.CountryID)
	}
	prev := row.account
	row.account.IsLocked = account.IsLocked
	row.account.LockedReason = account.LockedReason
	row.account.LockedAt = account.LockedAt
	row.account.FailedLoginAttempts = account.FailedLoginAttempts
	row.account.LastFailedLogin = account.LastFailedLogin
	row.account.UpdatedAt = account.UpdatedAt
	onRollback(tx, func() { row.account = prev })
	return nil
}

func (r *AccountRepo) Delete(_ context.Context, countryID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[countryID]; !ok {
		return false, nil
	}
	delete(r.store.accounts, countryID)
	return true, nil
}
