package macro

import (
	"context"
	"time"
)

// MacroService manages stored balance operations and runs them.
type MacroService interface {
	Create(ctx context.Context, req CreateMacroRequest) (MacroResponse, error)
	List(ctx context.Context) ([]MacroResponse, error)
	Update(ctx context.Context, req UpdateMacroRequest) (MacroResponse, error)
	Delete(ctx context.Context, id string) error

	// Run executes a macro immediately regardless of its schedule.
	Run(ctx context.Context, id string) (RunResult, error)

	// RunDue executes every scheduled macro whose schedule fires at the
	// given instant, evaluated in each tenant's local time. Called by
	// the nightly scheduler.
	RunDue(ctx context.Context, now time.Time) error
}
