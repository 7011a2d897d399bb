package domain

import "bank-account-service/pkg/apperror"

// CredentialResult is the outcome of checking a banking password.
type CredentialResult struct {
	Success           bool `json:"success"`
	Locked            bool `json:"locked"`
	RemainingAttempts int  `json:"remaining_attempts,omitempty"`
}

// Err converts a failed result into LOCKED or AUTHENTICATION_FAILED.
// It returns nil for a successful result.
func (r *CredentialResult) Err() error {
	switch {
	case r.Success:
		return nil
	case r.Locked:
		return apperror.ErrAccountLocked()
	default:
		return apperror.ErrWrongPassword(r.RemainingAttempts)
	}
}
