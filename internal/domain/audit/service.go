package audit

import (
	"context"
	"time"
)

// AuditService serves the audit trail and the evaluation log.
type AuditService interface {
	ListEvents(ctx context.Context, filter EventFilter) (ListEventResponse, error)
	ListEvaluations(ctx context.Context, filter EvaluationFilter) (ListEvaluationResponse, error)

	// Prune deletes audit events and evaluation entries older than the
	// given cutoffs. Called by the nightly scheduler.
	Prune(ctx context.Context, eventCutoff, evaluationCutoff time.Time) (int64, int64, error)
}

// Recorder writes audit events. Services record their mutations through
// this narrow interface, a failed write only logs and never fails the
// request.
type Recorder interface {
	Record(ctx context.Context, event Event)
}
