package absence

import "context"

// AbsenceService manages absence types and absence entries.
type AbsenceService interface {
	// CreateType registers a new absence type for the tenant.
	CreateType(ctx context.Context, req CreateTypeRequest) (TypeResponse, error)

	// ListTypes returns all absence types of the tenant ordered by code.
	ListTypes(ctx context.Context) ([]TypeResponse, error)

	// UpdateType modifies an absence type, the code stays fixed.
	UpdateType(ctx context.Context, req UpdateTypeRequest) (TypeResponse, error)

	// DeleteType removes an absence type that no absence references.
	DeleteType(ctx context.Context, id string) error

	// Create records an absence for an employee. Overlapping absences and
	// ranges touching closed months are rejected.
	Create(ctx context.Context, req CreateAbsenceRequest) (AbsenceResponse, error)

	// List returns absences matching the filter.
	List(ctx context.Context, filter AbsenceFilter) ([]AbsenceResponse, error)

	// Update modifies an absence entry.
	Update(ctx context.Context, req UpdateAbsenceRequest) (AbsenceResponse, error)

	// Delete removes an absence entry.
	Delete(ctx context.Context, id string) error
}
