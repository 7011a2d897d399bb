package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bank-account-service/internal/adapter/http/middleware"
	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/internal/core/ports/mocks"
	"bank-account-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testAccount() *domain.Account {
	return &domain.Account{
		CountryID:     "3201",
		Name:          "Ana",
		Email:         "ana@example.com",
		BirthDate:     time.Date(1990, 2, 14, 0, 0, 0, 0, time.UTC),
		DebitCardType: domain.CardTierBronze,
		Balance:       50000,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
}

// newContext builds a gin test context. body may be nil; params are
// key/value pairs.
func newContext(method, target string, body any, params ...string) (*gin.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(params); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: params[i], Value: params[i+1]})
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func int64Ptr(v int64) *int64 { return &v }

// --- Account Handler Tests ---

func validCreateBody() map[string]any {
	return map[string]any{
		"country_id":       "3201",
		"name":             "Ana",
		"email":            "ana@example.com",
		"birth_date":       "1990-02-14",
		"debit_card_type":  "bronze",
		"deposit_money":    50000,
		"password":         "Secr3t!pw",
		"password_confirm": "Secr3t!pw",
	}
}

func TestCreateAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().Create(gomock.Any(), ports.CreateAccountRequest{
		CountryID:            "3201",
		Name:                 "Ana",
		Email:                "ana@example.com",
		BirthDate:            time.Date(1990, 2, 14, 0, 0, 0, 0, time.UTC),
		DebitCardType:        "bronze",
		Password:             "Secr3t!pw",
		PasswordConfirmation: "Secr3t!pw",
		InitialDeposit:       50000,
	}).Return(testAccount(), nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts", validCreateBody())
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "3201", data["country_id"])
	assert.Equal(t, "1990-02-14", data["birth_date"])
	assert.Equal(t, float64(50000), data["balance"])
	assert.NotContains(t, data, "password_hash")
	assert.Equal(t, "3201", c.GetString(middleware.CtxAuditResourceID))
}

func TestCreateAccount_ValidationError(t *testing.T) {
	cases := map[string]func(map[string]any){
		"weak password":     func(b map[string]any) { b["password"], b["password_confirm"] = "password", "password" },
		"bad email":         func(b map[string]any) { b["email"] = "not-an-email" },
		"bad birth date":    func(b map[string]any) { b["birth_date"] = "14/02/1990" },
		"missing deposit":   func(b map[string]any) { delete(b, "deposit_money") },
		"negative deposit":  func(b map[string]any) { b["deposit_money"] = -1 },
		"unsafe country id": func(b map[string]any) { b["country_id"] = "32 01;" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewAccountHandler(mocks.NewMockAccountService(ctrl))

			body := validCreateBody()
			mutate(body)
			c, w := newContext(http.MethodPost, "/api/v1/accounts", body)
			h.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VAL_001", decode(t, w)["error_code"])
		})
	}
}

func TestCreateAccount_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrMinimumDeposit("Bronze", 50000))

	body := validCreateBody()
	body["deposit_money"] = 100
	c, w := newContext(http.MethodPost, "/api/v1/accounts", body)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "ACC_005", resp["error_code"])
	assert.Equal(t, "Bronze debit card first deposit must be equal or more than 50000", resp["message"])
	assert.Empty(t, c.GetString(middleware.CtxAuditResourceID))
}

func TestGetAccount_IncludesTransactionCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().Get(gomock.Any(), "3201").
		Return(&ports.AccountDetails{Account: testAccount(), TransactionCount: 7}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts/3201", nil, "country_id", "3201")
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(7), data["transaction_count"])
	lock := data["lock_status"].(map[string]any)
	assert.Equal(t, "UNLOCKED", lock["state"])
}

func TestGetAccount_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().Get(gomock.Any(), "404").Return(nil, apperror.ErrAccountNotFound())

	c, w := newContext(http.MethodGet, "/api/v1/accounts/404", nil, "country_id", "404")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ACC_001", decode(t, w)["error_code"])
}

func TestListAccounts_PassesBalanceRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().List(gomock.Any(), ports.AccountListParams{
		MinBalance: int64Ptr(1000),
		MaxBalance: int64Ptr(60000),
	}).Return([]domain.Account{*testAccount()}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts?balance_min=1000&balance_max=60000", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])
	assert.Len(t, data["accounts"], 1)
}

func TestListAccounts_EmptyIsArray(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().List(gomock.Any(), ports.AccountListParams{}).Return(nil, nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accounts":[]`)
}

func TestListAccounts_BadQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewAccountHandler(mocks.NewMockAccountService(ctrl))

	c, w := newContext(http.MethodGet, "/api/v1/accounts?balance_min=lots", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(svc)

	svc.EXPECT().Delete(gomock.Any(), "3201").Return(nil)

	c, w := newContext(http.MethodDelete, "/api/v1/accounts/3201", nil, "country_id", "3201")
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["deleted"])
}

// --- Balance Handler Tests ---

func TestDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBalanceService(ctrl)
	h := NewBalanceHandler(svc)

	txn := domain.NewTransaction("3201", domain.TransactionTypeDeposit, 1000, 5000, fixedNow)
	svc.EXPECT().Deposit(gomock.Any(), ports.MutationRequest{
		CountryID:      "3201",
		Email:          "ana@example.com",
		Password:       "Secr3t!pw",
		Amount:         1000,
		IdempotencyKey: "retry-1",
	}).Return(&ports.MutationResult{CountryID: "3201", Balance: 6000, Transaction: txn}, nil)

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/deposit", map[string]any{
		"email":           "ana@example.com",
		"password":        "Secr3t!pw",
		"deposited_money": 1000,
	}, "country_id", "3201")
	c.Request.Header.Set(HeaderIdempotencyKey, "retry-1")
	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(6000), data["balance"])
	record := data["transaction"].(map[string]any)
	assert.Equal(t, "deposit", record["type"])
	assert.Equal(t, float64(5000), record["balance_before"])
}

func TestDeposit_MissingAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewBalanceHandler(mocks.NewMockBalanceService(ctrl))

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/deposit", map[string]any{
		"email":    "ana@example.com",
		"password": "Secr3t!pw",
	}, "country_id", "3201")
	h.Deposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decode(t, w)["error_code"])
}

func TestDeposit_IdempotencyKeyTooLong(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewBalanceHandler(mocks.NewMockBalanceService(ctrl))

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/deposit", map[string]any{
		"email":           "ana@example.com",
		"password":        "Secr3t!pw",
		"deposited_money": 1000,
	}, "country_id", "3201")
	c.Request.Header.Set(HeaderIdempotencyKey, strings.Repeat("k", maxIdempotencyKeyLen+1))
	h.Deposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBalanceService(ctrl)
	h := NewBalanceHandler(svc)

	svc.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.MutationRequest) (*ports.MutationResult, error) {
			assert.Equal(t, int64(90000), req.Amount)
			assert.Empty(t, req.IdempotencyKey)
			return nil, apperror.ErrInsufficientFunds()
		})

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/withdraw", map[string]any{
		"email":           "ana@example.com",
		"password":        "Secr3t!pw",
		"retrieved_money": 90000,
	}, "country_id", "3201")
	h.Withdraw(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "BAL_002", decode(t, w)["error_code"])
}

func TestWithdraw_WrongPasswordReportsRemainingAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBalanceService(ctrl)
	h := NewBalanceHandler(svc)

	svc.EXPECT().Withdraw(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrWrongPassword(2))

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/withdraw", map[string]any{
		"email":           "ana@example.com",
		"password":        "wrong",
		"retrieved_money": 100,
	}, "country_id", "3201")
	h.Withdraw(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	details := resp["details"].(map[string]any)
	assert.Equal(t, float64(2), details["remaining_attempts"])
}

func TestTransfer_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBalanceService(ctrl)
	h := NewBalanceHandler(svc)

	svc.EXPECT().Transfer(gomock.Any(), ports.TransferRequest{
		FromCountryID: "3201",
		ToCountryID:   "4402",
		Email:         "ana@example.com",
		Password:      "Secr3t!pw",
		Amount:        700,
	}).Return(&ports.MutationResult{CountryID: "3201", Balance: 49300}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts/3201/transfer", map[string]any{
		"to_country_id": "4402",
		"email":         "ana@example.com",
		"password":      "Secr3t!pw",
		"amount":        700,
	}, "country_id", "3201")
	h.Transfer(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

// --- Lockout Handler Tests ---

func TestVerify_Outcomes(t *testing.T) {
	cases := []struct {
		name   string
		result *domain.CredentialResult
		status int
		code   string
	}{
		{"success", &domain.CredentialResult{Success: true}, http.StatusOK, ""},
		{"wrong password", &domain.CredentialResult{RemainingAttempts: 3}, http.StatusUnauthorized, "SEC_001"},
		{"locked", &domain.CredentialResult{Locked: true}, http.StatusLocked, "SEC_002"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockLockoutService(ctrl)
			h := NewLockoutHandler(svc)

			svc.EXPECT().VerifyCredential(gomock.Any(), "3201", "Secr3t!pw").Return(tc.result, nil)

			c, w := newContext(http.MethodPost, "/api/v1/accounts/3201/verify",
				map[string]any{"password": "Secr3t!pw"}, "country_id", "3201")
			h.Verify(c)

			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decode(t, w)["error_code"])
			}
		})
	}
}

func TestVerify_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockLockoutService(ctrl)
	h := NewLockoutHandler(svc)

	svc.EXPECT().VerifyCredential(gomock.Any(), "404", "pw").Return(nil, apperror.ErrAccountNotFound())

	c, w := newContext(http.MethodPost, "/api/v1/accounts/404/verify",
		map[string]any{"password": "pw"}, "country_id", "404")
	h.Verify(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLock_RequiresReason(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLockoutHandler(mocks.NewMockLockoutService(ctrl))

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/lock", map[string]any{}, "country_id", "3201")
	h.Lock(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLockUnlockStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockLockoutService(ctrl)
	h := NewLockoutHandler(svc)

	reason := "card reported stolen"
	locked := &domain.LockStatus{CountryID: "3201", State: domain.LockStateLocked, IsLocked: true, LockedReason: &reason, LockedAt: &fixedNow}
	unlocked := &domain.LockStatus{CountryID: "3201", State: domain.LockStateUnlocked}

	gomock.InOrder(
		svc.EXPECT().Lock(gomock.Any(), "3201", reason).Return(locked, nil),
		svc.EXPECT().Status(gomock.Any(), "3201").Return(locked, nil),
		svc.EXPECT().Unlock(gomock.Any(), "3201").Return(unlocked, nil),
	)

	c, w := newContext(http.MethodPut, "/api/v1/accounts/3201/lock", map[string]any{"reason": reason}, "country_id", "3201")
	h.Lock(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reason, decode(t, w)["data"].(map[string]any)["locked_reason"])

	c, w = newContext(http.MethodGet, "/api/v1/accounts/3201/status", nil, "country_id", "3201")
	h.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LOCKED", decode(t, w)["data"].(map[string]any)["state"])

	c, w = newContext(http.MethodPut, "/api/v1/accounts/3201/unlock", nil, "country_id", "3201")
	h.Unlock(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["data"].(map[string]any)["is_locked"])
}

// --- Transaction Handler Tests ---

func TestHistory_ParsesFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockHistoryService(ctrl)
	h := NewTransactionHandler(svc)

	svc.EXPECT().History(gomock.Any(), "3201", gomock.Any(), 2, 5).
		DoAndReturn(func(_ context.Context, _ string, f ports.HistoryFilter, page, size int) (*ports.HistoryPage, error) {
			require.NotNil(t, f.From)
			assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *f.From)
			assert.Nil(t, f.To)
			require.NotNil(t, f.Type)
			assert.Equal(t, domain.TransactionTypeWithdrawal, *f.Type)
			assert.Equal(t, int64(100), *f.MinAmount)
			return &ports.HistoryPage{Transactions: []domain.Transaction{}, CurrentPage: page, PageSize: size}, nil
		})

	c, w := newContext(http.MethodGet,
		"/api/v1/accounts/3201/transactions?page=2&limit=5&start_date=2024-05-01&transaction_type=withdrawal&min_amount=100",
		nil, "country_id", "3201")
	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["current_page"])
}

func TestHistory_InvalidQuery(t *testing.T) {
	for name, query := range map[string]string{
		"unknown type":  "transaction_type=refund",
		"bad date":      "start_date=yesterday",
		"limit too big": "limit=500",
	} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewTransactionHandler(mocks.NewMockHistoryService(ctrl))

			c, w := newContext(http.MethodGet, "/api/v1/accounts/3201/transactions?"+query, nil, "country_id", "3201")
			h.History(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRecent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockHistoryService(ctrl)
	h := NewTransactionHandler(svc)

	txn := domain.NewTransaction("3201", domain.TransactionTypeDeposit, 50000, 0, fixedNow)
	svc.EXPECT().Recent(gomock.Any(), "3201").Return([]domain.Transaction{*txn}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts/3201/transactions/recent", nil, "country_id", "3201")
	h.Recent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "3201", data["country_id"])
	assert.Len(t, data["transactions"], 1)
}

func TestSummary_WithPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockHistoryService(ctrl)
	h := NewTransactionHandler(svc)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	svc.EXPECT().Summary(gomock.Any(), "3201", &from, &to).
		Return(&ports.TransactionSummary{TotalTransactions: 2, TotalDeposits: 51000, DepositCount: 2}, nil)

	c, w := newContext(http.MethodGet,
		"/api/v1/accounts/3201/transactions/summary?start_date=2024-01-01&end_date=2024-06-30",
		nil, "country_id", "3201")
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	assert.Equal(t, float64(51000), summary["total_deposits"])
	assert.Equal(t, "2024-01-01T00:00:00Z", data["start_date"])
}

func TestGetTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockHistoryService(ctrl)
	h := NewTransactionHandler(svc)

	txn := domain.NewTransaction("3201", domain.TransactionTypeDeposit, 50000, 0, fixedNow)
	svc.EXPECT().Get(gomock.Any(), txn.ID).Return(txn, nil)

	c, w := newContext(http.MethodGet, "/api/v1/transactions/"+txn.ID.String(), nil, "transaction_id", txn.ID.String())
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, txn.ID.String(), decode(t, w)["data"].(map[string]any)["id"])
}

func TestGetTransaction_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTransactionHandler(mocks.NewMockHistoryService(ctrl))

	c, w := newContext(http.MethodGet, "/api/v1/transactions/abc", nil, "transaction_id", "abc")
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransaction_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockHistoryService(ctrl)
	h := NewTransactionHandler(svc)

	id := uuid.New()
	svc.EXPECT().Get(gomock.Any(), id).Return(nil, apperror.ErrTransactionNotFound())

	c, w := newContext(http.MethodGet, "/api/v1/transactions/"+id.String(), nil, "transaction_id", id.String())
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TXN_001", decode(t, w)["error_code"])
}

// --- Health and docs ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mocks.NewMockHealthChecker(ctrl)
	cache := mocks.NewMockHealthChecker(ctrl)
	db.EXPECT().Name().Return("postgresql").AnyTimes()
	cache.EXPECT().Name().Return("redis").AnyTimes()

	db.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)
	cache.EXPECT().Ping(gomock.Any()).Return(nil)
	cache.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	c, w := newContext(http.MethodGet, "/health", nil)
	HealthCheck(db, cache)(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	c, w = newContext(http.MethodGet, "/health", nil)
	HealthCheck(db, cache)(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	checks := resp["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["postgresql"])
	assert.Equal(t, "unhealthy: connection refused", checks["redis"])
}

func TestSwaggerSpec(t *testing.T) {
	t.Cleanup(func() { SetSwaggerSpec(nil) })

	c, w := newContext(http.MethodGet, "/swagger/spec", nil)
	SwaggerSpec(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	SetSwaggerSpec([]byte("openapi: 3.0.3\n"))
	c, w = newContext(http.MethodGet, "/swagger/spec", nil)
	SwaggerSpec(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "openapi: 3.0.3\n", w.Body.String())
}

// --- Router ---

func TestSetupRouter_RequiresToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenService(ctrl)
	accounts := mocks.NewMockAccountService(ctrl)

	tokens.EXPECT().Validate("good").Return(&ports.TokenClaims{Subject: "teller-1", Role: "teller"}, nil)
	tokens.EXPECT().Validate("bad").Return(nil, apperror.ErrInvalidToken())
	accounts.EXPECT().Get(gomock.Any(), "3201").
		Return(&ports.AccountDetails{Account: testAccount(), TransactionCount: 1}, nil)

	r := SetupRouter(RouterDeps{
		AccountSvc: accounts,
		BalanceSvc: mocks.NewMockBalanceService(ctrl),
		LockoutSvc: mocks.NewMockLockoutService(ctrl),
		HistorySvc: mocks.NewMockHistoryService(ctrl),
		TokenSvc:   tokens,
	})

	for _, tc := range []struct {
		auth   string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/3201", nil)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "auth %q", tc.auth)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	}
}
