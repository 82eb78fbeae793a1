package jobs

import (
	"context"
	"log/slog"

	"clipforge/internal/compose"
	"clipforge/internal/logging"
)

// Tracker bridges pipeline milestones into run records. Persistence failures
// are logged and swallowed: a run never fails because its status row could not
// be written.
type Tracker struct {
	store  *Store
	logger *slog.Logger
}

// NewTracker builds a milestone sink over the store.
func NewTracker(store *Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tracker{
		store:  store,
		logger: logger.With(logging.String(logging.FieldComponent, "jobs")),
	}
}

func (t *Tracker) Milestone(ctx context.Context, jobID string, stage compose.Stage, percent float64) {
	if err := t.store.UpdateProgress(ctx, jobID, string(stage), percent, ""); err != nil {
		t.logger.Warn("progress update failed",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
		)
	}
}

func (t *Tracker) Failed(ctx context.Context, jobID string, stage compose.Stage, message string) {
	if err := t.store.MarkFailed(ctx, jobID, string(stage), message); err != nil {
		t.logger.Warn("failure record update failed",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
		)
	}
}
