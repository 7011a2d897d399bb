package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its transport mapping.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindConflict             Kind = "CONFLICT"
	KindInvalidArgument      Kind = "INVALID_ARGUMENT"
	KindAuthenticationFailed Kind = "AUTHENTICATION_FAILED"
	KindLocked               Kind = "LOCKED"
	KindUnauthorized         Kind = "UNAUTHORIZED"
	KindRateLimited          Kind = "RATE_LIMITED"
	KindStorageFailure       Kind = "STORAGE_FAILURE"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Kind       Kind           `json:"-"`
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(kind Kind, code string, message string, httpStatus int) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// KindOf reports the Kind of err. Errors that are not AppErrors are
// treated as storage failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorageFailure
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound() *AppError {
	return New(KindNotFound, "ACC_001", "Unknown bank account", http.StatusNotFound)
}

func ErrEmailTaken() *AppError {
	return New(KindConflict, "ACC_002", "Email is already registered", http.StatusConflict)
}

func ErrCountryIDTaken() *AppError {
	return New(KindConflict, "ACC_003", "Country Id is already registered", http.StatusConflict)
}

func ErrInvalidCardType() *AppError {
	return New(KindInvalidArgument, "ACC_004", "Only bronze, express, and gold debit card types exist", http.StatusBadRequest)
}

func ErrMinimumDeposit(tier string, minimum int64) *AppError {
	e := New(KindInvalidArgument, "ACC_005",
		fmt.Sprintf("%s debit card first deposit must be equal or more than %d", tier, minimum),
		http.StatusBadRequest)
	e.Details = map[string]any{"minimum_deposit": minimum}
	return e
}

func ErrPasswordConfirmation() *AppError {
	return New(KindInvalidArgument, "ACC_006", "Password confirmation mismatched", http.StatusBadRequest)
}

// ---- Balance (BAL) ----

func ErrInvalidAmount() *AppError {
	return New(KindInvalidArgument, "BAL_001", "Amount must be a positive integer", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New(KindInvalidArgument, "BAL_002", "Insufficient balance", http.StatusUnprocessableEntity)
}

func ErrEmailMismatch() *AppError {
	return New(KindInvalidArgument, "BAL_003", "Email confirmation mismatched", http.StatusBadRequest)
}

func ErrSelfTransfer() *AppError {
	return New(KindInvalidArgument, "BAL_004", "Cannot transfer to the same account", http.StatusBadRequest)
}

func ErrBalanceLimit() *AppError {
	return New(KindInvalidArgument, "BAL_005", "Amount would exceed the maximum balance", http.StatusUnprocessableEntity)
}

// ---- Transactions (TXN) ----

func ErrTransactionNotFound() *AppError {
	return New(KindNotFound, "TXN_001", "Transaction not found", http.StatusNotFound)
}

// ---- Credentials (SEC) ----

func ErrWrongPassword(remaining int) *AppError {
	e := New(KindAuthenticationFailed, "SEC_001",
		fmt.Sprintf("Wrong password. %d attempts remaining.", remaining),
		http.StatusUnauthorized)
	e.Details = map[string]any{"remaining_attempts": remaining}
	return e
}

func ErrAccountLocked() *AppError {
	return New(KindLocked, "SEC_002", "Account is locked", http.StatusLocked)
}

// ---- API authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(KindUnauthorized, "AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(KindRateLimited, "RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 storage failure.
func InternalError(err error) *AppError {
	return Wrap(KindStorageFailure, "SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrPayloadTooLarge rejects request bodies above limit bytes.
func ErrPayloadTooLarge(limit int64) *AppError {
	e := New(KindInvalidArgument, "VAL_002", "Request body too large", http.StatusRequestEntityTooLarge)
	e.Details = map[string]any{"max_bytes": limit}
	return e
}

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New(KindInvalidArgument, "VAL_001", message, http.StatusBadRequest)
}
