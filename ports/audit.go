package ports

import (
	"context"
	"time"

	"fieldready/domain/core"
)

// AuditEvent records one privileged access to user data
type AuditEvent struct {
	ID         core.ID     `json:"id" db:"id"`
	ActorID    string      `json:"actor_id" db:"actor_id"`
	ActorRole  string      `json:"actor_role" db:"actor_role"`
	Action     string      `json:"action" db:"action"`
	SubjectID  core.UserID `json:"subject_id" db:"subject_id"`
	SourceIP   string      `json:"source_ip,omitempty" db:"source_ip"`
	OccurredAt time.Time   `json:"occurred_at" db:"occurred_at"`
}

// AuditLog appends access events. Implementations must never block a
// request on audit failure; a lost event is logged, not fatal.
type AuditLog interface {
	Record(ctx context.Context, event AuditEvent) error
	ListBySubject(ctx context.Context, subjectID core.UserID, limit int) ([]AuditEvent, error)
}
