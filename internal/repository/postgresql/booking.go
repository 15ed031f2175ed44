package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/booking"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type bookingRepositoryImpl struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) booking.Repository {
	return &bookingRepositoryImpl{db: db}
}

const bookingColumns = `id, tenant_id, employee_id, date, minute, direction, origin, note, created_at, updated_at`

func scanBooking(row pgx.Row) (booking.Booking, error) {
	var b booking.Booking
	err := row.Scan(
		&b.ID, &b.TenantID, &b.EmployeeID, &b.Date, &b.Minute,
		&b.Direction, &b.Origin, &b.Note, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements booking.Repository.
func (r *bookingRepositoryImpl) Create(ctx context.Context, newBooking booking.Booking) (booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bookings (tenant_id, employee_id, date, minute, direction, origin, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookingColumns

	created, err := scanBooking(q.QueryRow(ctx, query,
		newBooking.TenantID, newBooking.EmployeeID, newBooking.Date,
		newBooking.Minute, newBooking.Direction, newBooking.Origin, newBooking.Note,
	))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

// GetByID implements booking.Repository.
func (r *bookingRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND tenant_id = $2
	`

	found, err := scanBooking(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Booking{}, booking.ErrBookingNotFound
		}
		return booking.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}

	return found, nil
}

// List implements booking.Repository.
func (r *bookingRepositoryImpl) List(ctx context.Context, tenantID string, filter booking.BookingFilter) ([]booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE %s
		ORDER BY date DESC, minute DESC
		LIMIT 500
	`, bookingColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListByEmployeeDate implements booking.Repository.
func (r *bookingRepositoryImpl) ListByEmployeeDate(ctx context.Context, tenantID, employeeID string, date time.Time) ([]booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND employee_id = $2 AND date = $3
		ORDER BY minute ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for day: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListRange implements booking.Repository.
func (r *bookingRepositoryImpl) ListRange(ctx context.Context, tenantID string, employeeIDs []string, from, to time.Time) ([]booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND employee_id = ANY($2) AND date >= $3 AND date <= $4
		ORDER BY employee_id, date ASC, minute ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings in range: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]booking.Booking, error) {
	var bookings []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// GetLastForEmployee implements booking.Repository.
func (r *bookingRepositoryImpl) GetLastForEmployee(ctx context.Context, tenantID, employeeID string, date time.Time) (booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND employee_id = $2 AND date = $3
		ORDER BY minute DESC
		LIMIT 1
	`

	found, err := scanBooking(q.QueryRow(ctx, query, tenantID, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Booking{}, booking.ErrBookingNotFound
		}
		return booking.Booking{}, fmt.Errorf("failed to get last booking: %w", err)
	}

	return found, nil
}

// Exists implements booking.Repository.
func (r *bookingRepositoryImpl) Exists(ctx context.Context, tenantID, employeeID string, date time.Time, minute int, direction booking.Direction) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE tenant_id = $1 AND employee_id = $2 AND date = $3 AND minute = $4 AND direction = $5
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, tenantID, employeeID, date, minute, direction).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Update implements booking.Repository.
func (r *bookingRepositoryImpl) Update(ctx context.Context, tenantID string, req booking.UpdateBookingRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Date != nil && *req.Date != "" {
		parsedDate, _ := time.Parse("2006-01-02", *req.Date)
		updates["date"] = parsedDate
	}
	if req.Minute != nil {
		updates["minute"] = *req.Minute
	}
	if req.Direction != nil && *req.Direction != "" {
		updates["direction"] = *req.Direction
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

	sql := fmt.Sprintf("UPDATE bookings SET %s WHERE id = $%d AND tenant_id = $%d RETURNING id", strings.Join(setClauses, ", "), i, i+1)
	args = append(args, req.ID, tenantID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.ErrBookingNotFound
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

// Delete implements booking.Repository.
func (r *bookingRepositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM bookings WHERE id = $1 AND tenant_id = $2`

	tag, err := q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}
