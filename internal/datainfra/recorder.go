package datainfra

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/repository"
)

// AuditRecorder persists failure entries as audit rows. Record is best
// effort: an insert failure is swallowed, because the audit trail must never
// fail the request that produced the entry.
type AuditRecorder struct {
	db    *bun.DB
	clock cache.Clock
}

// NewAuditRecorder wires the recorder. A nil clock uses the system clock.
func NewAuditRecorder(db *bun.DB, clock cache.Clock) *AuditRecorder {
	if clock == nil {
		clock = cache.SystemClock()
	}
	return &AuditRecorder{db: db, clock: clock}
}

// Record implements repository.Recorder.
func (r *AuditRecorder) Record(ctx context.Context, e repository.Entry) {
	row := &logRow{
		ID:        uuid.NewString(),
		UserID:    e.UserID,
		Module:    e.Module,
		Action:    e.Action,
		Message:   e.Message,
		CreatedAt: stampIn(r.clock),
	}
	_, _ = r.db.NewInsert().Model(row).Exec(ctx)
}
