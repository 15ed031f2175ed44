package employee

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	tariffRepo   tariff.TariffRepository
	auditor      audit.Recorder
}

func NewEmployeeService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	tariffRepo tariff.TariffRepository,
	auditor audit.Recorder,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		tariffRepo:   tariffRepo,
		auditor:      auditor,
	}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	var exitDate *string
	if emp.ExitDate != nil {
		s := emp.ExitDate.Format("2006-01-02")
		exitDate = &s
	}

	var hourlyWage *string
	if emp.HourlyWage != nil {
		s := emp.HourlyWage.StringFixed(2)
		hourlyWage = &s
	}

	return employee.EmployeeResponse{
		ID:              emp.ID,
		Code:            emp.Code,
		FirstName:       emp.FirstName,
		LastName:        emp.LastName,
		BadgeNumber:     emp.BadgeNumber,
		TariffID:        emp.TariffID,
		AccessProfileID: emp.AccessProfileID,
		EntryDate:       emp.EntryDate.Format("2006-01-02"),
		ExitDate:        exitDate,
		InitialFlextime: emp.InitialFlextime,
		HourlyWage:      hourlyWage,
		Active:          emp.Active,
		CreatedAt:       emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       emp.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	}

	if req.BadgeNumber != nil && *req.BadgeNumber != "" {
		taken, err := s.employeeRepo.ExistsByBadgeNumber(ctx, tenantID, *req.BadgeNumber, nil)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check badge number: %w", err)
		}
		if taken {
			return employee.EmployeeResponse{}, employee.ErrBadgeNumberExists
		}
	}

	if _, err := s.tariffRepo.GetByID(ctx, tenantID, req.TariffID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	entryDate, _ := time.Parse("2006-01-02", req.EntryDate)

	var hourlyWage *decimal.Decimal
	if req.HourlyWage != nil && *req.HourlyWage != "" {
		wage, err := decimal.NewFromString(*req.HourlyWage)
		if err != nil {
			return employee.EmployeeResponse{}, validator.ValidationErrors{{
				Field:   "hourly_wage",
				Message: "hourly_wage must be a decimal number",
			}}
		}
		hourlyWage = &wage
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		TenantID:        tenantID,
		Code:            req.Code,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BadgeNumber:     req.BadgeNumber,
		TariffID:        req.TariffID,
		AccessProfileID: req.AccessProfileID,
		EntryDate:       entryDate,
		InitialFlextime: req.InitialFlextime,
		HourlyWage:      hourlyWage,
		Active:          active,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "employee.create",
		EntityType: "employee",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"code": created.Code, "name": created.FullName()},
	})

	return mapEmployeeToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	found, err := s.employeeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeToResponse(found), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, totalCount, err := s.employeeRepo.List(ctx, tenantID, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))

	showingFrom := (filter.Page-1)*filter.Limit + 1
	showingTo := showingFrom + len(employees) - 1
	if len(employees) == 0 {
		showingFrom = 0
		showingTo = 0
	}

	response := employee.ListEmployeeResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    fmt.Sprintf("%d-%d of %d", showingFrom, showingTo, totalCount),
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, emp := range employees {
		response.Employees = append(response.Employees, mapEmployeeToResponse(emp))
	}

	return response, nil
}

// UpdateEmployee implements employee.EmployeeService. The personnel code is
// immutable, a differing code in the request is rejected.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.Code != nil && *req.Code != existing.Code {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field:   "code",
			Message: "code is immutable and cannot be changed",
		}}
	}

	if req.BadgeNumber != nil && *req.BadgeNumber != "" {
		taken, err := s.employeeRepo.ExistsByBadgeNumber(ctx, tenantID, *req.BadgeNumber, &req.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check badge number: %w", err)
		}
		if taken {
			return employee.EmployeeResponse{}, employee.ErrBadgeNumberExists
		}
	}

	if req.TariffID != nil && *req.TariffID != "" {
		if _, err := s.tariffRepo.GetByID(ctx, tenantID, *req.TariffID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	if err := s.employeeRepo.Update(ctx, tenantID, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "employee.update",
		EntityType: "employee",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"code": updated.Code, "name": updated.FullName()},
	})

	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService. Employees that have
// bookings keep their history and can only be deactivated.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.employeeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.employeeRepo.CountBookings(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if count > 0 {
		return employee.ErrEmployeeHasBookings
	}

	if err := s.employeeRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "employee.delete",
		EntityType: "employee",
		EntityID:   &id,
		Detail:     map[string]interface{}{"code": existing.Code, "name": existing.FullName()},
	})

	return nil
}
