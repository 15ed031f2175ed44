package audit

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, event Event) error
	List(ctx context.Context, tenantID string, filter EventFilter) ([]Event, int64, error)

	// DeleteOlderThan removes events created before the cutoff across all
	// tenants and returns the number of deleted rows.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, evaluation Evaluation) error
	List(ctx context.Context, tenantID string, filter EvaluationFilter) ([]Evaluation, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
