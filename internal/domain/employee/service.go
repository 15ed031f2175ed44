package employee

import (
	"context"
)

// EmployeeService defines business logic for employee master data
type EmployeeService interface {
	// CreateEmployee creates a new employee (manager+ only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// ListEmployees lists employees with filters
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpdateEmployee updates an existing employee, the code stays fixed
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee without bookings (manager+ only)
	DeleteEmployee(ctx context.Context, id string) error
}
