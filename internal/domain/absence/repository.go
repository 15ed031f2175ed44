package absence

import (
	"context"
	"time"
)

type TypeRepository interface {
	Create(ctx context.Context, newType AbsenceType) (AbsenceType, error)
	GetByID(ctx context.Context, tenantID, id string) (AbsenceType, error)
	GetByCode(ctx context.Context, tenantID, code string) (AbsenceType, error)
	List(ctx context.Context, tenantID string) ([]AbsenceType, error)
	ExistsByCode(ctx context.Context, tenantID, code string) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateTypeRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	CountAbsences(ctx context.Context, tenantID, typeID string) (int64, error)
}

type Repository interface {
	Create(ctx context.Context, newAbsence Absence) (Absence, error)
	GetByID(ctx context.Context, tenantID, id string) (Absence, error)
	List(ctx context.Context, tenantID string, filter AbsenceFilter) ([]Absence, error)

	// ListRange returns all absences of the given employees overlapping
	// the inclusive date range, with type code and credit joined in.
	ListRange(ctx context.Context, tenantID string, employeeIDs []string, from, to time.Time) ([]Absence, error)

	// ExistsOverlap reports whether the employee already has an absence
	// overlapping the inclusive date range, excluding the given id.
	ExistsOverlap(ctx context.Context, tenantID, employeeID string, from, to time.Time, excludeID *string) (bool, error)

	Update(ctx context.Context, tenantID string, req UpdateAbsenceRequest) error
	Delete(ctx context.Context, tenantID, id string) error
}
