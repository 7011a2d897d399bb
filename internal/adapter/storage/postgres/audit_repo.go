package postgres

import (
	"context"
	"fmt"

	"bank-account-service/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit repository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends an audit entry.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, actor, action, resource_type, resource_id, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.Actor, string(e.Action), e.ResourceType,
		e.ResourceID, e.Details, e.IPAddress, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
