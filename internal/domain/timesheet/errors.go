package timesheet

import "errors"

var (
	ErrMonthClosed          = errors.New("the month is closed for this employee")
	ErrMonthAlreadyClosed   = errors.New("the month is already closed for this employee")
	ErrMonthNotClosed       = errors.New("the month is not closed for this employee")
	ErrPreviousMonthOpen    = errors.New("the previous month must be closed first")
	ErrLaterMonthClosed     = errors.New("a later month is still closed for this employee")
	ErrMonthHasErrorDays    = errors.New("the month has days with unresolved errors")
	ErrRecalculationRunning = errors.New("a recalculation is already running for this tenant")
	ErrMonthlyValueNotFound = errors.New("no calculated values exist for this month")
)
