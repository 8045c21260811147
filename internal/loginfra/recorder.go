package loginfra

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-insurance-cache/repository"
)

// ZapRecorder emits failure entries as structured log records. It is the
// default recorder when no database-backed audit trail is wired, and can be
// combined with one through Fanout.
type ZapRecorder struct {
	log *zap.Logger
}

// NewZapRecorder wires the recorder. A nil logger uses zap's no-op logger.
func NewZapRecorder(log *zap.Logger) *ZapRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapRecorder{log: log}
}

// Record implements repository.Recorder.
func (r *ZapRecorder) Record(_ context.Context, e repository.Entry) {
	r.log.Warn("operation failure recorded",
		zap.Int("user_id", e.UserID),
		zap.String("module", e.Module),
		zap.String("action", e.Action),
		zap.String("message", e.Message),
	)
}

// Fanout duplicates every entry across several recorders, typically the zap
// recorder plus the audit-table recorder.
type Fanout []repository.Recorder

// Record implements repository.Recorder.
func (f Fanout) Record(ctx context.Context, e repository.Entry) {
	for _, r := range f {
		if r != nil {
			r.Record(ctx, e)
		}
	}
}
