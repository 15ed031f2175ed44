package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/holiday"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (tenant_id, date, name, half_day)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, date, name, half_day, created_at, updated_at
	`

	var created holiday.Holiday
	err := q.QueryRow(ctx, query, h.TenantID, h.Date, h.Name, h.HalfDay).Scan(
		&created.ID,
		&created.TenantID,
		&created.Date,
		&created.Name,
		&created.HalfDay,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return created, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, date, name, half_day, created_at, updated_at
		FROM holidays
		WHERE id = $1 AND tenant_id = $2
	`

	var found holiday.Holiday
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&found.ID,
		&found.TenantID,
		&found.Date,
		&found.Name,
		&found.HalfDay,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}

	return found, nil
}

// ListByYear implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListByYear(ctx context.Context, tenantID string, year int) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, date, name, half_day, created_at, updated_at
		FROM holidays
		WHERE tenant_id = $1 AND EXTRACT(YEAR FROM date) = $2
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	return collectHolidays(rows)
}

// ListRange implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListRange(ctx context.Context, tenantID string, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, date, name, half_day, created_at, updated_at
		FROM holidays
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays in range: %w", err)
	}
	defer rows.Close()

	return collectHolidays(rows)
}

func collectHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		err := rows.Scan(
			&h.ID,
			&h.TenantID,
			&h.Date,
			&h.Name,
			&h.HalfDay,
			&h.CreatedAt,
			&h.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

// ExistsOnDate implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ExistsOnDate(ctx context.Context, tenantID string, date time.Time, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM holidays WHERE tenant_id = $1 AND date = $2 AND ($3::uuid IS NULL OR id != $3))`

	var exists bool
	err := q.QueryRow(ctx, query, tenantID, date, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, tenantID string, req holiday.UpdateHolidayRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Date != nil && *req.Date != "" {
		parsedDate, _ := time.Parse("2006-01-02", *req.Date)
		updates["date"] = parsedDate
	}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.HalfDay != nil {
		updates["half_day"] = *req.HalfDay
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

	sql := fmt.Sprintf("UPDATE holidays SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to update holiday: %w", err)
	}

	return nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM holidays WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}

	return nil
}
