package memory

import (
	"context"

	"bank-account-service/internal/core/domain"
)

type auditRow struct {
	entry domain.AuditLog
}

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	store *Store
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(store *Store) *AuditRepo {
	return &AuditRepo{store: store}
}

func (r *AuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audit = append(r.store.audit, auditRow{entry: *entry})
	return nil
}

// Entries returns a copy of the audit log in insertion order.
func (r *AuditRepo) Entries() []domain.AuditLog {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.AuditLog, len(r.store.audit))
	for i, row := range r.store.audit {
		out[i] = row.entry
	}
	return out
}
