package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
	"bank-account-service/internal/core/ports/mocks"
	"bank-account-service/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type accountTestDeps struct {
	svc         *AccountServiceImpl
	accountRepo *mocks.MockAccountRepository
	txRepo      *mocks.MockTransactionRepository
	hashSvc     *mocks.MockHashService
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupAccountService(t *testing.T) *accountTestDeps {
	ctrl := gomock.NewController(t)
	d := &accountTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		hashSvc:     mocks.NewMockHashService(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewAccountService(d.accountRepo, d.txRepo, d.hashSvc, d.transactor, newTestLogger())
	d.svc.now = func() time.Time { return fixedNow }
	return d
}

func createRequest(tier string, deposit int64) ports.CreateAccountRequest {
	return ports.CreateAccountRequest{
		CountryID:            "3201",
		Name:                 "Ana",
		Email:                "ana@example.com",
		BirthDate:            time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC),
		DebitCardType:        tier,
		Password:             "Secret1!",
		PasswordConfirmation: "Secret1!",
		InitialDeposit:       deposit,
	}
}

func (d *accountTestDeps) expectUnique(ctx context.Context) {
	d.accountRepo.EXPECT().GetByEmail(ctx, "ana@example.com").Return(nil, nil)
	d.accountRepo.EXPECT().GetByCountryID(ctx, "3201").Return(nil, nil)
}

func TestAccountService_Create_Success(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.expectUnique(ctx)
	d.hashSvc.EXPECT().Hash("Secret1!").Return("bcrypt-hash", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, a *domain.Account) error {
			assert.Equal(t, "bcrypt-hash", a.PasswordHash)
			assert.Equal(t, domain.CardTierGold, a.DebitCardType)
			assert.Equal(t, int64(200000), a.Balance)
			assert.False(t, a.IsLocked)
			return nil
		})
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionTypeDeposit, txn.Type)
			assert.Zero(t, txn.BalanceBefore)
			assert.Equal(t, int64(200000), txn.BalanceAfter)
			return nil
		})

	account, err := d.svc.Create(ctx, createRequest("Gold", 200000))
	require.NoError(t, err)
	assert.Equal(t, "3201", account.CountryID)
	assert.Equal(t, fixedNow, account.CreatedAt)
}

func TestAccountService_Create_MinimumDeposit(t *testing.T) {
	tests := []struct {
		tier    string
		deposit int64
		ok      bool
	}{
		{"bronze", 50000, true},
		{"bronze", 49999, false},
		{"express", 100000, true},
		{"express", 99999, false},
		{"gold", 200000, true},
		{"gold", 199999, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.tier, tt.deposit), func(t *testing.T) {
			d := setupAccountService(t)
			ctx := context.Background()

			d.expectUnique(ctx)
			if tt.ok {
				tx := &mockTx{}
				d.hashSvc.EXPECT().Hash(gomock.Any()).Return("h", nil)
				d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
				d.accountRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
				d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
			}

			_, err := d.svc.Create(ctx, createRequest(tt.tier, tt.deposit))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.Is(err, "ACC_005"))
		})
	}
}

func TestAccountService_Create_MinimumDepositMessage(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()
	d.expectUnique(ctx)

	_, err := d.svc.Create(ctx, createRequest("bronze", 10))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Bronze debit card first deposit must be equal or more than 50000", appErr.Message)
}

func TestAccountService_Create_PasswordConfirmation(t *testing.T) {
	d := setupAccountService(t)

	req := createRequest("gold", 200000)
	req.PasswordConfirmation = "other"

	_, err := d.svc.Create(context.Background(), req)
	assert.True(t, apperror.Is(err, "ACC_006"))
}

func TestAccountService_Create_EmailTaken(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()

	d.accountRepo.EXPECT().GetByEmail(ctx, "ana@example.com").Return(testAccount(), nil)

	_, err := d.svc.Create(ctx, createRequest("gold", 200000))
	assert.True(t, apperror.Is(err, "ACC_002"))
}

func TestAccountService_Create_CountryIDTaken(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()

	d.accountRepo.EXPECT().GetByEmail(ctx, "ana@example.com").Return(nil, nil)
	d.accountRepo.EXPECT().GetByCountryID(ctx, "3201").Return(testAccount(), nil)

	_, err := d.svc.Create(ctx, createRequest("gold", 200000))
	assert.True(t, apperror.Is(err, "ACC_003"))
}

func TestAccountService_Create_InvalidCardType(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()
	d.expectUnique(ctx)

	_, err := d.svc.Create(ctx, createRequest("platinum", 900000))
	assert.True(t, apperror.Is(err, "ACC_004"))
}

func TestAccountService_Create_RaceOnInsert(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.expectUnique(ctx)
	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("h", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().Create(ctx, tx, gomock.Any()).
		Return(fmt.Errorf("insert account: accounts_email_key: %w", ports.ErrDuplicateKey))

	_, err := d.svc.Create(ctx, createRequest("gold", 200000))
	assert.True(t, apperror.Is(err, "ACC_002"))
}

func TestAccountService_Get(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()

	d.accountRepo.EXPECT().GetByCountryID(ctx, "3201").Return(testAccount(), nil)
	d.txRepo.EXPECT().CountByAccount(ctx, "3201").Return(int64(3), nil)

	details, err := d.svc.Get(ctx, "3201")
	require.NoError(t, err)
	assert.Equal(t, "3201", details.Account.CountryID)
	assert.Equal(t, int64(3), details.TransactionCount)
}

func TestAccountService_Get_NotFound(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()

	d.accountRepo.EXPECT().GetByCountryID(ctx, "404").Return(nil, nil)

	_, err := d.svc.Get(ctx, "404")
	assert.True(t, apperror.Is(err, "ACC_001"))
}

func TestAccountService_List(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()
	lo, hi := int64(100), int64(200)
	params := ports.AccountListParams{MinBalance: &lo, MaxBalance: &hi}

	d.accountRepo.EXPECT().List(ctx, params).Return([]domain.Account{*testAccount()}, nil)

	accounts, err := d.svc.List(ctx, params)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccountService_List_InvertedRange(t *testing.T) {
	d := setupAccountService(t)
	lo, hi := int64(300), int64(200)

	_, err := d.svc.List(context.Background(), ports.AccountListParams{MinBalance: &lo, MaxBalance: &hi})
	assert.True(t, apperror.Is(err, "VAL_001"))
}

func TestAccountService_Delete(t *testing.T) {
	d := setupAccountService(t)
	ctx := context.Background()

	d.accountRepo.EXPECT().Delete(ctx, "3201").Return(true, nil)
	d.accountRepo.EXPECT().Delete(ctx, "404").Return(false, nil)

	assert.NoError(t, d.svc.Delete(ctx, "3201"))
	assert.True(t, apperror.Is(d.svc.Delete(ctx, "404"), "ACC_001"))
}
