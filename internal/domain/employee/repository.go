package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, tenantID, id string) (Employee, error)
	GetByCode(ctx context.Context, tenantID, code string) (Employee, error)
	GetByBadgeNumber(ctx context.Context, tenantID, badgeNumber string) (Employee, error)
	List(ctx context.Context, tenantID string, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context, tenantID string) ([]Employee, error)
	ExistsByCode(ctx context.Context, tenantID, code string) (bool, error)
	ExistsByBadgeNumber(ctx context.Context, tenantID, badgeNumber string, excludeID *string) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateEmployeeRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	CountBookings(ctx context.Context, tenantID, id string) (int64, error)
}
