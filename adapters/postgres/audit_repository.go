package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"fieldready/domain/core"
	"fieldready/ports"
)

// AuditRepository implements ports.AuditLog on PostgreSQL
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new PostgreSQL audit repository
func NewAuditRepository(db *sqlx.DB) ports.AuditLog {
	return &AuditRepository{db: db}
}

// Record appends an access event
func (r *AuditRepository) Record(ctx context.Context, event ports.AuditEvent) error {
	if event.ID.IsEmpty() {
		event.ID = core.NewID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, actor_id, actor_role, action, subject_id, source_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID.String(), event.ActorID, event.ActorRole, event.Action,
		event.SubjectID.String(), event.SourceIP, event.OccurredAt)
	if err != nil {
		return core.NewStorageError("record audit event", err)
	}
	return nil
}

// ListBySubject returns the most recent events touching a subject
func (r *AuditRepository) ListBySubject(ctx context.Context, subjectID core.UserID, limit int) ([]ports.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []ports.AuditEvent
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, actor_id, actor_role, action, subject_id, source_ip, occurred_at
		FROM audit_events
		WHERE subject_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`,
		string(subjectID), limit)
	if err != nil {
		return nil, core.NewStorageError("list audit events", err)
	}
	return out, nil
}
