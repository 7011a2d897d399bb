package service

import (
	"slices"

	"bank-account-service/internal/core/domain"
	"bank-account-service/internal/core/ports"
)

const (
	// RecentTransactionLimit bounds the recent transactions query.
	RecentTransactionLimit = 5

	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// FilterTransactions keeps the transactions matching every set field of f.
// Date bounds are inclusive.
func FilterTransactions(txns []domain.Transaction, f ports.HistoryFilter) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.From != nil && t.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && t.CreatedAt.After(*f.To) {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.MinAmount != nil && t.Amount < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortNewestFirst orders txns by CreatedAt descending, keeping the input
// order of equal timestamps.
func SortNewestFirst(txns []domain.Transaction) {
	slices.SortStableFunc(txns, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// Paginate slices txns into 1-based pages of pageSize. A page past the end
// is empty.
func Paginate(txns []domain.Transaction, page, pageSize int) *ports.HistoryPage {
	total := len(txns)
	result := &ports.HistoryPage{
		Transactions:      []domain.Transaction{},
		TotalTransactions: int64(total),
		TotalPages:        (total + pageSize - 1) / pageSize,
		CurrentPage:       page,
		PageSize:          pageSize,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return result
	}
	end := min(start+pageSize, total)
	result.Transactions = txns[start:end]
	return result
}

// Summarize totals amounts and counts per type. Unknown types are ignored.
func Summarize(txns []domain.Transaction) *ports.TransactionSummary {
	s := &ports.TransactionSummary{}
	for _, t := range txns {
		switch t.Type {
		case domain.TransactionTypeDeposit:
			s.TotalDeposits += t.Amount
			s.DepositCount++
		case domain.TransactionTypeWithdrawal:
			s.TotalWithdrawals += t.Amount
			s.WithdrawalCount++
		case domain.TransactionTypeTransferIn:
			s.TotalTransfersIn += t.Amount
			s.TransferInCount++
		case domain.TransactionTypeTransferOut:
			s.TotalTransfersOut += t.Amount
			s.TransferOutCount++
		default:
			continue
		}
		s.TotalTransactions++
	}
	return s
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}
