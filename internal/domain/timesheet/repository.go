package timesheet

import (
	"context"
	"time"
)

type DailyValueRepository interface {
	// UpsertBatch writes the calculated daily values, replacing existing
	// rows for the same employee and date.
	UpsertBatch(ctx context.Context, values []DailyValue) error

	// ListRange returns the employee's daily values in the inclusive
	// date range ordered by date.
	ListRange(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]DailyValue, error)

	// CountErrorDays counts days carrying at least one error code in the
	// inclusive date range.
	CountErrorDays(ctx context.Context, tenantID, employeeID string, from, to time.Time) (int64, error)

	// DeleteRange removes the employee's daily values in the inclusive
	// date range.
	DeleteRange(ctx context.Context, tenantID, employeeID string, from, to time.Time) error
}

type MonthlyValueRepository interface {
	// Upsert writes the monthly value, replacing an existing row for the
	// same employee and month. Closure fields are preserved.
	Upsert(ctx context.Context, value MonthlyValue) error

	Get(ctx context.Context, tenantID, employeeID, month string) (MonthlyValue, error)
	ListByMonth(ctx context.Context, tenantID, month string) ([]MonthlyValue, error)

	// GetLastMonth returns the latest month key that has a monthly value
	// for the employee, or an empty string when none exists.
	GetLastMonth(ctx context.Context, tenantID, employeeID string) (string, error)

	// GetLastClosedMonth returns the latest closed month key for the
	// employee, or an empty string when none is closed.
	GetLastClosedMonth(ctx context.Context, tenantID, employeeID string) (string, error)

	IsClosed(ctx context.Context, tenantID, employeeID, month string) (bool, error)

	// ExistsClosedAfter reports whether any month after the given one is
	// closed for the employee.
	ExistsClosedAfter(ctx context.Context, tenantID, employeeID, month string) (bool, error)

	SetClosed(ctx context.Context, tenantID, employeeID, month, closedBy, reason string) error
	SetReopened(ctx context.Context, tenantID, employeeID, month string) error

	// SetAdjustment stores a flextime adjustment applied to the month,
	// such as a cap cut or a balance reset, and refreshes the month end.
	SetAdjustment(ctx context.Context, tenantID, employeeID, month string, adjustmentMinutes int) error
}
