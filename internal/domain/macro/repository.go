package macro

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, newMacro Macro) (Macro, error)
	GetByID(ctx context.Context, tenantID, id string) (Macro, error)
	List(ctx context.Context, tenantID string) ([]Macro, error)

	// ListActiveScheduled returns active macros with a monthly or yearly
	// schedule across all tenants, for the nightly scheduler.
	ListActiveScheduled(ctx context.Context) ([]Macro, error)

	Update(ctx context.Context, tenantID string, req UpdateMacroRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	SetLastRunAt(ctx context.Context, tenantID, id string, ranAt time.Time) error
}
