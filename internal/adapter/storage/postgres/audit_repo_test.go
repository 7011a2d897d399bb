package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"bank-account-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	e := &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        "teller-1",
		Action:       domain.AuditActionDeposit,
		ResourceType: "account",
		ResourceID:   "3201",
		Details:      `{"status":200}`,
		IPAddress:    "10.0.0.1",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(e.ID, e.Actor, "DEPOSIT", e.ResourceType, e.ResourceID, e.Details, e.IPAddress, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("boom"))

	err = repo.Create(context.Background(), &domain.AuditLog{ID: uuid.New()})
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	h := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", h.Name())

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	assert.NoError(t, h.Ping(context.Background()))

	mock.ExpectExec("SELECT 1").WillReturnError(errors.New("down"))
	assert.Error(t, h.Ping(context.Background()))
}

func TestTransactor_Begin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := tr.Begin(context.Background())
	require.NoError(t, err)
	assert.NoError(t, tx.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
	_, err = tr.Begin(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}
