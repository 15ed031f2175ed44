package timesheet

import (
	"context"
	"time"
)

// TimesheetService calculates and serves daily and monthly time values.
type TimesheetService interface {
	// Recalculate recomputes daily values for the requested employees and
	// date range, then rebuilds the flextime chain forward to the latest
	// calculated month. Days inside closed months are left untouched.
	// Only one recalculation runs per tenant at a time.
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculateResponse, error)

	// GetTimesheet returns one employee's calculated month with bookings
	// joined into each day.
	GetTimesheet(ctx context.Context, employeeID, month string) (TimesheetResponse, error)

	// ListMonthlyValues returns the monthly values of all employees for
	// one month.
	ListMonthlyValues(ctx context.Context, month string) ([]MonthlyValueResponse, error)

	// CloseMonth freezes the month for the requested employees. A month
	// can only be closed when the previous month is closed and, unless
	// forced, when no day carries an error code.
	CloseMonth(ctx context.Context, req CloseMonthRequest) (CloseMonthResponse, error)

	// ReopenMonth unfreezes the month for correction. Only the latest
	// closed month of an employee can be reopened, and a reason is
	// required for the audit trail.
	ReopenMonth(ctx context.Context, req ReopenMonthRequest) (CloseMonthResponse, error)
}

// Recalculator is the narrow trigger surface other services use after they
// changed time data. The evaluation is logged under the given trigger.
type Recalculator interface {
	TriggerRecalculation(ctx context.Context, tenantID, trigger string, employeeIDs []string, from, to time.Time) error
}
