package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/absence"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type absenceTypeRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceTypeRepository(db *database.DB) absence.TypeRepository {
	return &absenceTypeRepositoryImpl{db: db}
}

// Create implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) Create(ctx context.Context, newType absence.AbsenceType) (absence.AbsenceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absence_types (tenant_id, code, name, category, credit, paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tenant_id, code, name, category, credit, paid, created_at, updated_at
	`

	var created absence.AbsenceType
	err := q.QueryRow(ctx, query,
		newType.TenantID, newType.Code, newType.Name, newType.Category, newType.Credit, newType.Paid,
	).Scan(
		&created.ID,
		&created.TenantID,
		&created.Code,
		&created.Name,
		&created.Category,
		&created.Credit,
		&created.Paid,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return absence.AbsenceType{}, fmt.Errorf("failed to create absence type: %w", err)
	}

	return created, nil
}

// GetByID implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (absence.AbsenceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, code, name, category, credit, paid, created_at, updated_at
		FROM absence_types
		WHERE id = $1 AND tenant_id = $2
	`

	var found absence.AbsenceType
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Code,
		&found.Name,
		&found.Category,
		&found.Credit,
		&found.Paid,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.AbsenceType{}, absence.ErrTypeNotFound
		}
		return absence.AbsenceType{}, fmt.Errorf("failed to get absence type: %w", err)
	}

	return found, nil
}

// GetByCode implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) GetByCode(ctx context.Context, tenantID, code string) (absence.AbsenceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, code, name, category, credit, paid, created_at, updated_at
		FROM absence_types
		WHERE code = $1 AND tenant_id = $2
	`

	var found absence.AbsenceType
	err := q.QueryRow(ctx, query, code, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Code,
		&found.Name,
		&found.Category,
		&found.Credit,
		&found.Paid,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.AbsenceType{}, absence.ErrTypeNotFound
		}
		return absence.AbsenceType{}, fmt.Errorf("failed to get absence type by code: %w", err)
	}

	return found, nil
}

// List implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) List(ctx context.Context, tenantID string) ([]absence.AbsenceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, code, name, category, credit, paid, created_at, updated_at
		FROM absence_types
		WHERE tenant_id = $1
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list absence types: %w", err)
	}
	defer rows.Close()

	var types []absence.AbsenceType
	for rows.Next() {
		var t absence.AbsenceType
		err := rows.Scan(
			&t.ID,
			&t.TenantID,
			&t.Code,
			&t.Name,
			&t.Category,
			&t.Credit,
			&t.Paid,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

// ExistsByCode implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM absence_types WHERE code = $1 AND tenant_id = $2)`

	var exists bool
	err := q.QueryRow(ctx, query, code, tenantID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) Update(ctx context.Context, tenantID string, req absence.UpdateTypeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Category != nil && *req.Category != "" {
		updates["category"] = *req.Category
	}
	if req.Credit != nil && *req.Credit != "" {
		updates["credit"] = *req.Credit
	}
	if req.Paid != nil {
		updates["paid"] = *req.Paid
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

	sql := fmt.Sprintf("UPDATE absence_types SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.ErrTypeNotFound
		}
		return fmt.Errorf("failed to update absence type: %w", err)
	}

	return nil
}

// Delete implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM absence_types WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete absence type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrTypeNotFound
	}

	return nil
}

// CountAbsences implements absence.TypeRepository.
func (r *absenceTypeRepositoryImpl) CountAbsences(ctx context.Context, tenantID, typeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM absences WHERE type_id = $1 AND tenant_id = $2`

	var count int64
	err := q.QueryRow(ctx, query, typeID, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count absences: %w", err)
	}

	return count, nil
}

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.Repository {
	return &absenceRepositoryImpl{db: db}
}

const absenceColumns = `a.id, a.tenant_id, a.employee_id, a.type_id, a.from_date, a.to_date,
		a.half_day, a.note, a.created_at, a.updated_at, t.code, t.credit`

func scanAbsence(row pgx.Row) (absence.Absence, error) {
	var ab absence.Absence
	err := row.Scan(
		&ab.ID, &ab.TenantID, &ab.EmployeeID, &ab.TypeID, &ab.FromDate, &ab.ToDate,
		&ab.HalfDay, &ab.Note, &ab.CreatedAt, &ab.UpdatedAt, &ab.TypeCode, &ab.TypeCredit,
	)
	return ab, err
}

// Create implements absence.Repository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, newAbsence absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO absences (tenant_id, employee_id, type_id, from_date, to_date, half_day, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT a.id, a.tenant_id, a.employee_id, a.type_id, a.from_date, a.to_date,
			a.half_day, a.note, a.created_at, a.updated_at, t.code, t.credit
		FROM inserted a
		JOIN absence_types t ON a.type_id = t.id
	`

	created, err := scanAbsence(q.QueryRow(ctx, query,
		newAbsence.TenantID, newAbsence.EmployeeID, newAbsence.TypeID,
		newAbsence.FromDate, newAbsence.ToDate, newAbsence.HalfDay, newAbsence.Note,
	))
	if err != nil {
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}

	return created, nil
}

// GetByID implements absence.Repository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `
		FROM absences a
		JOIN absence_types t ON a.type_id = t.id
		WHERE a.id = $1 AND a.tenant_id = $2
	`

	found, err := scanAbsence(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence: %w", err)
	}

	return found, nil
}

// List implements absence.Repository.
func (r *absenceRepositoryImpl) List(ctx context.Context, tenantID string, filter absence.AbsenceFilter) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.TypeID != nil && *filter.TypeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.type_id = $%d", argIdx))
		args = append(args, *filter.TypeID)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("a.to_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("a.from_date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM absences a
		JOIN absence_types t ON a.type_id = t.id
		WHERE %s
		ORDER BY a.from_date DESC
	`, absenceColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	return collectAbsences(rows)
}

// ListRange implements absence.Repository.
func (r *absenceRepositoryImpl) ListRange(ctx context.Context, tenantID string, employeeIDs []string, from, to time.Time) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `
		FROM absences a
		JOIN absence_types t ON a.type_id = t.id
		WHERE a.tenant_id = $1 AND a.employee_id = ANY($2)
			AND a.from_date <= $4 AND a.to_date >= $3
		ORDER BY a.employee_id, a.from_date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences in range: %w", err)
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func collectAbsences(rows pgx.Rows) ([]absence.Absence, error) {
	var absences []absence.Absence
	for rows.Next() {
		ab, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, ab)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return absences, nil
}

// ExistsOverlap implements absence.Repository.
func (r *absenceRepositoryImpl) ExistsOverlap(ctx context.Context, tenantID, employeeID string, from, to time.Time, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM absences
			WHERE tenant_id = $1 AND employee_id = $2
				AND from_date <= $4 AND to_date >= $3
				AND ($5::uuid IS NULL OR id != $5)
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, tenantID, employeeID, from, to, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements absence.Repository.
func (r *absenceRepositoryImpl) Update(ctx context.Context, tenantID string, req absence.UpdateAbsenceRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.TypeID != nil && *req.TypeID != "" {
		updates["type_id"] = *req.TypeID
	}
	if req.FromDate != nil && *req.FromDate != "" {
		parsedFrom, _ := time.Parse("2006-01-02", *req.FromDate)
		updates["from_date"] = parsedFrom
	}
	if req.ToDate != nil && *req.ToDate != "" {
		parsedTo, _ := time.Parse("2006-01-02", *req.ToDate)
		updates["to_date"] = parsedTo
	}
	if req.HalfDay != nil {
		updates["half_day"] = *req.HalfDay
	}
	if req.Note != nil {
		if *req.Note == "" {
			updates["note"] = nil
		} else {
			updates["note"] = *req.Note
		}
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

	sql := fmt.Sprintf("UPDATE absences SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.ErrAbsenceNotFound
		}
		return fmt.Errorf("failed to update absence: %w", err)
	}

	return nil
}

// Delete implements absence.Repository.
func (r *absenceRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM absences WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}

	return nil
}
