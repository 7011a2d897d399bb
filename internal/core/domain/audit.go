package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionAccountCreate AuditAction = "ACCOUNT_CREATE"
	AuditActionAccountDelete AuditAction = "ACCOUNT_DELETE"
	AuditActionDeposit       AuditAction = "DEPOSIT"
	AuditActionWithdrawal    AuditAction = "WITHDRAWAL"
	AuditActionTransfer      AuditAction = "TRANSFER"
	AuditActionLock          AuditAction = "LOCK"
	AuditActionUnlock        AuditAction = "UNLOCK"
	AuditActionVerify        AuditAction = "VERIFY"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        string      `json:"actor"` // API caller subject
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
