package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zmi-time/zmi-backend-go/internal/domain/timesheet"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
)

type dailyValueRepositoryImpl struct {
	db *database.DB
}

func NewDailyValueRepository(db *database.DB) timesheet.DailyValueRepository {
	return &dailyValueRepositoryImpl{db: db}
}

// UpsertBatch implements timesheet.DailyValueRepository.
func (r *dailyValueRepositoryImpl) UpsertBatch(ctx context.Context, values []timesheet.DailyValue) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_values (
			tenant_id, employee_id, date, target_minutes, gross_minutes, break_minutes,
			presence_minutes, credit_minutes, net_minutes, overtime_minutes, undertime_minutes,
			flextime_change_minutes, codes, absence_code, holiday_name, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (tenant_id, employee_id, date) DO UPDATE SET
			target_minutes = EXCLUDED.target_minutes,
			gross_minutes = EXCLUDED.gross_minutes,
			break_minutes = EXCLUDED.break_minutes,
			presence_minutes = EXCLUDED.presence_minutes,
			credit_minutes = EXCLUDED.credit_minutes,
			net_minutes = EXCLUDED.net_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			undertime_minutes = EXCLUDED.undertime_minutes,
			flextime_change_minutes = EXCLUDED.flextime_change_minutes,
			codes = EXCLUDED.codes,
			absence_code = EXCLUDED.absence_code,
			holiday_name = EXCLUDED.holiday_name,
			calculated_at = EXCLUDED.calculated_at
	`

	for i := range values {
		v := &values[i]
		codes := v.Codes
		if codes == nil {
			codes = []string{}
		}
		_, err := q.Exec(ctx, query,
			v.TenantID, v.EmployeeID, v.Date, v.TargetMinutes, v.GrossMinutes, v.BreakMinutes,
			v.PresenceMinutes, v.CreditMinutes, v.NetMinutes, v.OvertimeMinutes, v.UndertimeMinutes,
			v.FlextimeChangeMinutes, codes, v.AbsenceCode, v.HolidayName, v.CalculatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert daily value for %s: %w", v.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}

// ListRange implements timesheet.DailyValueRepository.
func (r *dailyValueRepositoryImpl) ListRange(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]timesheet.DailyValue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id, date, target_minutes, gross_minutes, break_minutes,
			presence_minutes, credit_minutes, net_minutes, overtime_minutes, undertime_minutes,
			flextime_change_minutes, codes, absence_code, holiday_name, calculated_at
		FROM daily_values
		WHERE tenant_id = $1 AND employee_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily values: %w", err)
	}
	defer rows.Close()

	var values []timesheet.DailyValue
	for rows.Next() {
		var v timesheet.DailyValue
		err := rows.Scan(
			&v.ID, &v.TenantID, &v.EmployeeID, &v.Date, &v.TargetMinutes, &v.GrossMinutes,
			&v.BreakMinutes, &v.PresenceMinutes, &v.CreditMinutes, &v.NetMinutes,
			&v.OvertimeMinutes, &v.UndertimeMinutes, &v.FlextimeChangeMinutes,
			&v.Codes, &v.AbsenceCode, &v.HolidayName, &v.CalculatedAt,
		)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// CountErrorDays implements timesheet.DailyValueRepository.
func (r *dailyValueRepositoryImpl) CountErrorDays(ctx context.Context, tenantID, employeeID string, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM daily_values
		WHERE tenant_id = $1 AND employee_id = $2 AND date >= $3 AND date <= $4
			AND EXISTS (SELECT 1 FROM unnest(codes) AS c WHERE c ~ '^E_')
	`

	var count int64
	err := q.QueryRow(ctx, query, tenantID, employeeID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count error days: %w", err)
	}

	return count, nil
}

// DeleteRange implements timesheet.DailyValueRepository.
func (r *dailyValueRepositoryImpl) DeleteRange(ctx context.Context, tenantID, employeeID string, from, to time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM daily_values WHERE tenant_id = $1 AND employee_id = $2 AND date >= $3 AND date <= $4`

	_, err := q.Exec(ctx, query, tenantID, employeeID, from, to)
	if err != nil {
		return fmt.Errorf("failed to delete daily values: %w", err)
	}

	return nil
}

type monthlyValueRepositoryImpl struct {
	db *database.DB
}

func NewMonthlyValueRepository(db *database.DB) timesheet.MonthlyValueRepository {
	return &monthlyValueRepositoryImpl{db: db}
}

const monthlyValueColumns = `id, tenant_id, employee_id, month, target_minutes, gross_minutes,
		break_minutes, presence_minutes, credit_minutes, net_minutes, overtime_minutes,
		undertime_minutes, flextime_start_minutes, flextime_change_minutes,
		flextime_adjustment_minutes, flextime_end_minutes, error_days, closed, closed_at,
		closed_by, closed_reason, calculated_at`

func scanMonthlyValue(row pgx.Row) (timesheet.MonthlyValue, error) {
	var v timesheet.MonthlyValue
	err := row.Scan(
		&v.ID, &v.TenantID, &v.EmployeeID, &v.Month, &v.TargetMinutes, &v.GrossMinutes,
		&v.BreakMinutes, &v.PresenceMinutes, &v.CreditMinutes, &v.NetMinutes,
		&v.OvertimeMinutes, &v.UndertimeMinutes, &v.FlextimeStartMinutes,
		&v.FlextimeChangeMinutes, &v.FlextimeAdjustmentMinutes, &v.FlextimeEndMinutes,
		&v.ErrorDays, &v.Closed, &v.ClosedAt, &v.ClosedBy, &v.ClosedReason, &v.CalculatedAt,
	)
	return v, err
}

// Upsert implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) Upsert(ctx context.Context, value timesheet.MonthlyValue) error {
	q := GetQuerier(ctx, r.db)

	// Closure fields are never touched here, a closed month stays closed.
	query := `
		INSERT INTO monthly_values (
			tenant_id, employee_id, month, target_minutes, gross_minutes, break_minutes,
			presence_minutes, credit_minutes, net_minutes, overtime_minutes, undertime_minutes,
			flextime_start_minutes, flextime_change_minutes, flextime_adjustment_minutes,
			flextime_end_minutes, error_days, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (tenant_id, employee_id, month) DO UPDATE SET
			target_minutes = EXCLUDED.target_minutes,
			gross_minutes = EXCLUDED.gross_minutes,
			break_minutes = EXCLUDED.break_minutes,
			presence_minutes = EXCLUDED.presence_minutes,
			credit_minutes = EXCLUDED.credit_minutes,
			net_minutes = EXCLUDED.net_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			undertime_minutes = EXCLUDED.undertime_minutes,
			flextime_start_minutes = EXCLUDED.flextime_start_minutes,
			flextime_change_minutes = EXCLUDED.flextime_change_minutes,
			flextime_adjustment_minutes = EXCLUDED.flextime_adjustment_minutes,
			flextime_end_minutes = EXCLUDED.flextime_end_minutes,
			error_days = EXCLUDED.error_days,
			calculated_at = EXCLUDED.calculated_at
	`

	_, err := q.Exec(ctx, query,
		value.TenantID, value.EmployeeID, value.Month, value.TargetMinutes, value.GrossMinutes,
		value.BreakMinutes, value.PresenceMinutes, value.CreditMinutes, value.NetMinutes,
		value.OvertimeMinutes, value.UndertimeMinutes, value.FlextimeStartMinutes,
		value.FlextimeChangeMinutes, value.FlextimeAdjustmentMinutes, value.FlextimeEndMinutes,
		value.ErrorDays, value.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly value for %s: %w", value.Month, err)
	}

	return nil
}

// Get implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) Get(ctx context.Context, tenantID, employeeID, month string) (timesheet.MonthlyValue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + monthlyValueColumns + `
		FROM monthly_values
		WHERE tenant_id = $1 AND employee_id = $2 AND month = $3
	`

	found, err := scanMonthlyValue(q.QueryRow(ctx, query, tenantID, employeeID, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.MonthlyValue{}, timesheet.ErrMonthlyValueNotFound
		}
		return timesheet.MonthlyValue{}, fmt.Errorf("failed to get monthly value: %w", err)
	}

	return found, nil
}

// ListByMonth implements timesheet.MonthlyValueRepository. Employee code
// and name are joined for the month overview.
func (r *monthlyValueRepositoryImpl) ListByMonth(ctx context.Context, tenantID, month string) ([]timesheet.MonthlyValue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT v.id, v.tenant_id, v.employee_id, v.month, v.target_minutes, v.gross_minutes,
			v.break_minutes, v.presence_minutes, v.credit_minutes, v.net_minutes, v.overtime_minutes,
			v.undertime_minutes, v.flextime_start_minutes, v.flextime_change_minutes,
			v.flextime_adjustment_minutes, v.flextime_end_minutes, v.error_days, v.closed, v.closed_at,
			v.closed_by, v.closed_reason, v.calculated_at, e.code, e.last_name || ', ' || e.first_name
		FROM monthly_values v
		JOIN employees e ON v.employee_id = e.id
		WHERE v.tenant_id = $1 AND v.month = $2
		ORDER BY e.code ASC
	`

	rows, err := q.Query(ctx, query, tenantID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly values: %w", err)
	}
	defer rows.Close()

	var values []timesheet.MonthlyValue
	for rows.Next() {
		var v timesheet.MonthlyValue
		err := rows.Scan(
			&v.ID, &v.TenantID, &v.EmployeeID, &v.Month, &v.TargetMinutes, &v.GrossMinutes,
			&v.BreakMinutes, &v.PresenceMinutes, &v.CreditMinutes, &v.NetMinutes,
			&v.OvertimeMinutes, &v.UndertimeMinutes, &v.FlextimeStartMinutes,
			&v.FlextimeChangeMinutes, &v.FlextimeAdjustmentMinutes, &v.FlextimeEndMinutes,
			&v.ErrorDays, &v.Closed, &v.ClosedAt, &v.ClosedBy, &v.ClosedReason, &v.CalculatedAt,
			&v.EmployeeCode, &v.EmployeeName,
		)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// GetLastMonth implements timesheet.MonthlyValueRepository.
// Months sort lexicographically because they are stored as YYYY-MM.
func (r *monthlyValueRepositoryImpl) GetLastMonth(ctx context.Context, tenantID, employeeID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month FROM monthly_values
		WHERE tenant_id = $1 AND employee_id = $2
		ORDER BY month DESC
		LIMIT 1
	`

	var month string
	err := q.QueryRow(ctx, query, tenantID, employeeID).Scan(&month)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last month: %w", err)
	}

	return month, nil
}

// GetLastClosedMonth implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) GetLastClosedMonth(ctx context.Context, tenantID, employeeID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month FROM monthly_values
		WHERE tenant_id = $1 AND employee_id = $2 AND closed = TRUE
		ORDER BY month DESC
		LIMIT 1
	`

	var month string
	err := q.QueryRow(ctx, query, tenantID, employeeID).Scan(&month)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last closed month: %w", err)
	}

	return month, nil
}

// IsClosed implements timesheet.MonthlyValueRepository.
// A month without a calculated value counts as open.
func (r *monthlyValueRepositoryImpl) IsClosed(ctx context.Context, tenantID, employeeID, month string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT closed FROM monthly_values
		WHERE tenant_id = $1 AND employee_id = $2 AND month = $3
	`

	var closed bool
	err := q.QueryRow(ctx, query, tenantID, employeeID, month).Scan(&closed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check month closure: %w", err)
	}

	return closed, nil
}

// ExistsClosedAfter implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) ExistsClosedAfter(ctx context.Context, tenantID, employeeID, month string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM monthly_values
			WHERE tenant_id = $1 AND employee_id = $2 AND month > $3 AND closed = TRUE
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, tenantID, employeeID, month).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// SetClosed implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) SetClosed(ctx context.Context, tenantID, employeeID, month, closedBy, reason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_values
		SET closed = TRUE, closed_at = NOW(), closed_by = $4, closed_reason = $5
		WHERE tenant_id = $1 AND employee_id = $2 AND month = $3 AND closed = FALSE
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, tenantID, employeeID, month, closedBy, reason).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.ErrMonthlyValueNotFound
		}
		return fmt.Errorf("failed to close month: %w", err)
	}

	return nil
}

// SetReopened implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) SetReopened(ctx context.Context, tenantID, employeeID, month string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_values
		SET closed = FALSE, closed_at = NULL, closed_by = NULL, closed_reason = NULL
		WHERE tenant_id = $1 AND employee_id = $2 AND month = $3 AND closed = TRUE
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, tenantID, employeeID, month).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.ErrMonthlyValueNotFound
		}
		return fmt.Errorf("failed to reopen month: %w", err)
	}

	return nil
}

// SetAdjustment implements timesheet.MonthlyValueRepository.
func (r *monthlyValueRepositoryImpl) SetAdjustment(ctx context.Context, tenantID, employeeID, month string, adjustmentMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_values
		SET flextime_adjustment_minutes = $4,
			flextime_end_minutes = flextime_start_minutes + flextime_change_minutes + $4
		WHERE tenant_id = $1 AND employee_id = $2 AND month = $3
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, tenantID, employeeID, month, adjustmentMinutes).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.ErrMonthlyValueNotFound
		}
		return fmt.Errorf("failed to set flextime adjustment: %w", err)
	}

	return nil
}
