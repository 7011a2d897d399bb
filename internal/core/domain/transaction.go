package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of balance movement.
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdrawal  TransactionType = "withdrawal"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

// TransactionTypes lists every valid type in summary order.
var TransactionTypes = []TransactionType{
	TransactionTypeDeposit,
	TransactionTypeWithdrawal,
	TransactionTypeTransferIn,
	TransactionTypeTransferOut,
}

// Valid reports whether t is one of the four known types.
func (t TransactionType) Valid() bool {
	return slices.Contains(TransactionTypes, t)
}

// Sign is +1 for credits, -1 for debits and 0 for unknown types.
func (t TransactionType) Sign() int64 {
	switch t {
	case TransactionTypeDeposit, TransactionTypeTransferIn:
		return 1
	case TransactionTypeWithdrawal, TransactionTypeTransferOut:
		return -1
	}
	return 0
}

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable record of a balance change.
type Transaction struct {
	ID                    uuid.UUID         `json:"id"`
	CountryID             string            `json:"country_id"`
	Type                  TransactionType   `json:"type"`
	Amount                int64             `json:"amount"`
	BalanceBefore         int64             `json:"balance_before"`
	BalanceAfter          int64             `json:"balance_after"`
	Description           string            `json:"description"`
	CounterpartyCountryID *string           `json:"counterparty_country_id,omitempty"`
	Status                TransactionStatus `json:"status"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// NewTransaction builds a completed record moving balanceBefore by amount
// in the direction of typ.
func NewTransaction(countryID string, typ TransactionType, amount, balanceBefore int64, now time.Time) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		CountryID:     countryID,
		Type:          typ,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + typ.Sign()*amount,
		Description:   DescribeTransaction(typ, amount),
		Status:        TransactionStatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DescribeTransaction returns the human readable description stored on a record.
func DescribeTransaction(typ TransactionType, amount int64) string {
	switch typ {
	case TransactionTypeDeposit:
		return fmt.Sprintf("Deposit of %d", amount)
	case TransactionTypeWithdrawal:
		return fmt.Sprintf("Withdrawal of %d", amount)
	case TransactionTypeTransferIn:
		return fmt.Sprintf("Transfer in of %d", amount)
	case TransactionTypeTransferOut:
		return fmt.Sprintf("Transfer out of %d", amount)
	}
	return fmt.Sprintf("%s of %d", typ, amount)
}

// Consistent reports whether BalanceAfter equals BalanceBefore moved by
// Amount in the direction of Type.
func (t *Transaction) Consistent() bool {
	if !t.Type.Valid() || t.Amount <= 0 {
		return false
	}
	return t.BalanceAfter == t.BalanceBefore+t.Type.Sign()*t.Amount
}

