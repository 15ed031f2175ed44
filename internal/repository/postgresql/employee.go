package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/employee"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, tenant_id, code, first_name, last_name, badge_number, tariff_id,
		access_profile_id, entry_date, exit_date, initial_flextime, hourly_wage, active,
		created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.TenantID, &emp.Code, &emp.FirstName, &emp.LastName,
		&emp.BadgeNumber, &emp.TariffID, &emp.AccessProfileID, &emp.EntryDate,
		&emp.ExitDate, &emp.InitialFlextime, &emp.HourlyWage, &emp.Active,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			tenant_id, code, first_name, last_name, badge_number, tariff_id,
			access_profile_id, entry_date, exit_date, initial_flextime, hourly_wage, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.TenantID, newEmployee.Code, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.BadgeNumber, newEmployee.TariffID, newEmployee.AccessProfileID,
		newEmployee.EntryDate, newEmployee.ExitDate, newEmployee.InitialFlextime,
		newEmployee.HourlyWage, newEmployee.Active,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND tenant_id = $2
	`

	found, err := scanEmployee(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return found, nil
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, tenantID, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE code = $1 AND tenant_id = $2
	`

	found, err := scanEmployee(q.QueryRow(ctx, query, code, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	return found, nil
}

// GetByBadgeNumber implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByBadgeNumber(ctx context.Context, tenantID, badgeNumber string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE badge_number = $1 AND tenant_id = $2
	`

	found, err := scanEmployee(q.QueryRow(ctx, query, badgeNumber, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrUnknownBadge
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by badge: %w", err)
	}

	return found, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, tenantID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.TariffID != nil && *filter.TariffID != "" {
		conditions = append(conditions, fmt.Sprintf("tariff_id = $%d", argIdx))
		args = append(args, *filter.TariffID)
		argIdx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *filter.Active)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int64
	err := q.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	// Validate sort column
	validSortColumns := map[string]string{
		"code":       "code",
		"last_name":  "last_name",
		"entry_date": "entry_date",
		"created_at": "created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "code"
	}

	sortOrder := "ASC"
	if strings.ToUpper(filter.SortOrder) == "DESC" {
		sortOrder = "DESC"
	}

	// Main query with pagination
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		err := rows.Scan(
			&emp.ID, &emp.TenantID, &emp.Code, &emp.FirstName, &emp.LastName,
			&emp.BadgeNumber, &emp.TariffID, &emp.AccessProfileID, &emp.EntryDate,
			&emp.ExitDate, &emp.InitialFlextime, &emp.HourlyWage, &emp.Active,
			&emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context, tenantID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		err := rows.Scan(
			&emp.ID, &emp.TenantID, &emp.Code, &emp.FirstName, &emp.LastName,
			&emp.BadgeNumber, &emp.TariffID, &emp.AccessProfileID, &emp.EntryDate,
			&emp.ExitDate, &emp.InitialFlextime, &emp.HourlyWage, &emp.Active,
			&emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// ExistsByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE code = $1 AND tenant_id = $2)`

	var exists bool
	err := q.QueryRow(ctx, query, code, tenantID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ExistsByBadgeNumber implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByBadgeNumber(ctx context.Context, tenantID, badgeNumber string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE badge_number = $1 AND tenant_id = $2 AND ($3::uuid IS NULL OR id != $3))`

	var exists bool
	err := q.QueryRow(ctx, query, badgeNumber, tenantID, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, tenantID string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})

	if req.FirstName != nil && *req.FirstName != "" {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != "" {
		updates["last_name"] = *req.LastName
	}
	if req.BadgeNumber != nil {
		if *req.BadgeNumber == "" {
			updates["badge_number"] = nil
		} else {
			updates["badge_number"] = *req.BadgeNumber
		}
	}
	if req.TariffID != nil && *req.TariffID != "" {
		updates["tariff_id"] = *req.TariffID
	}
	if req.AccessProfileID != nil {
		if *req.AccessProfileID == "" {
			updates["access_profile_id"] = nil
		} else {
			updates["access_profile_id"] = *req.AccessProfileID
		}
	}
	if req.EntryDate != nil && *req.EntryDate != "" {
		parsedEntryDate, _ := time.Parse("2006-01-02", *req.EntryDate)
		updates["entry_date"] = parsedEntryDate
	}
	if req.ExitDate != nil {
		if *req.ExitDate == "" {
			updates["exit_date"] = nil
		} else {
			parsedExitDate, _ := time.Parse("2006-01-02", *req.ExitDate)
			updates["exit_date"] = parsedExitDate
		}
	}
	if req.InitialFlextime != nil {
		updates["initial_flextime"] = *req.InitialFlextime
	}
	if req.HourlyWage != nil {
		updates["hourly_wage"] = *req.HourlyWage
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return nil // No updates provided
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+2)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, e.db)

	query := `DELETE FROM employees WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// CountBookings implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountBookings(ctx context.Context, tenantID, id string) (int64, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT COUNT(*) FROM bookings WHERE employee_id = $1 AND tenant_id = $2`

	var count int64
	err := q.QueryRow(ctx, query, id, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}
