package domain

import (
	"math"
	"strings"
	"time"
)

const (
	// MaxFailedLoginAttempts is the default number of consecutive wrong
	// passwords that locks an account.
	MaxFailedLoginAttempts = 5

	// LockReasonSecurity is recorded when an account locks itself after
	// too many failed logins.
	LockReasonSecurity = "security"
)

// CardTier is the debit card class of an account.
type CardTier string

const (
	CardTierBronze  CardTier = "bronze"
	CardTierExpress CardTier = "express"
	CardTierGold    CardTier = "gold"
)

var tierMinimumDeposit = map[CardTier]int64{
	CardTierBronze:  50000,
	CardTierExpress: 100000,
	CardTierGold:    200000,
}

// ParseCardTier matches s against the known tiers, ignoring case.
func ParseCardTier(s string) (CardTier, bool) {
	t := CardTier(strings.ToLower(strings.TrimSpace(s)))
	_, ok := tierMinimumDeposit[t]
	return t, ok
}

// MinimumDeposit is the smallest opening deposit allowed for the tier.
func (t CardTier) MinimumDeposit() int64 {
	return tierMinimumDeposit[t]
}

// DisplayName returns the tier with an upper-case first letter.
func (t CardTier) DisplayName() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// LockState is the lockout state of an account.
type LockState string

const (
	LockStateUnlocked LockState = "UNLOCKED"
	LockStateLocked   LockState = "LOCKED"
)

// Account is a bank account keyed by its country id.
type Account struct {
	CountryID           string     `json:"country_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	BirthDate           time.Time  `json:"birth_date"`
	DebitCardType       CardTier   `json:"debit_card_type"`
	Balance             int64      `json:"balance"`
	PasswordHash        string     `json:"-"` // Never expose
	IsLocked            bool       `json:"is_locked"`
	LockedReason        *string    `json:"locked_reason,omitempty"`
	LockedAt            *time.Time `json:"locked_at,omitempty"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastFailedLogin     *time.Time `json:"last_failed_login,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CanCredit reports whether amount can be added to the balance without
// overflowing int64.
func (a *Account) CanCredit(amount int64) bool {
	return amount <= math.MaxInt64-a.Balance
}

// State reports whether the account is locked.
func (a *Account) State() LockState {
	if a.IsLocked {
		return LockStateLocked
	}
	return LockStateUnlocked
}

// RegisterFailedLogin counts a wrong password. When the counter reaches
// maxAttempts the account locks with LockReasonSecurity. It returns the
// attempts left before locking, zero once locked.
func (a *Account) RegisterFailedLogin(maxAttempts int, now time.Time) int {
	a.FailedLoginAttempts++
	a.LastFailedLogin = &now
	a.UpdatedAt = now

	if a.FailedLoginAttempts >= maxAttempts {
		a.Lock(LockReasonSecurity, now)
		return 0
	}
	return maxAttempts - a.FailedLoginAttempts
}

// ResetFailedLogins clears the failure counter after a correct password.
func (a *Account) ResetFailedLogins(now time.Time) {
	a.FailedLoginAttempts = 0
	a.LastFailedLogin = nil
	a.UpdatedAt = now
}

// Lock forces the account into LOCKED, overwriting any previous reason.
func (a *Account) Lock(reason string, now time.Time) {
	a.IsLocked = true
	a.LockedReason = &reason
	a.LockedAt = &now
	a.UpdatedAt = now
}

// Unlock forces the account into UNLOCKED and resets the failure counter.
func (a *Account) Unlock(now time.Time) {
	a.IsLocked = false
	a.LockedReason = nil
	a.LockedAt = nil
	a.FailedLoginAttempts = 0
	a.LastFailedLogin = nil
	a.UpdatedAt = now
}

// LockStatus is a read-only view of the lockout fields.
type LockStatus struct {
	CountryID           string     `json:"country_id"`
	State               LockState  `json:"state"`
	IsLocked            bool       `json:"is_locked"`
	LockedReason        *string    `json:"locked_reason,omitempty"`
	LockedAt            *time.Time `json:"locked_at,omitempty"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastFailedLogin     *time.Time `json:"last_failed_login,omitempty"`
}

// LockStatus snapshots the lockout fields of the account.
func (a *Account) LockStatus() LockStatus {
	return LockStatus{
		CountryID:           a.CountryID,
		State:               a.State(),
		IsLocked:            a.IsLocked,
		LockedReason:        a.LockedReason,
		LockedAt:            a.LockedAt,
		FailedLoginAttempts: a.FailedLoginAttempts,
		LastFailedLogin:     a.LastFailedLogin,
	}
}
