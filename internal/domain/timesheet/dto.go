package timesheet

import (
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type RecalculateRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty means all active employees
	FromDate    string   `json:"from_date"`              // YYYY-MM-DD
	ToDate      string   `json:"to_date"`                // YYYY-MM-DD
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	from, fromValid := validator.IsValidDate(r.FromDate)
	if validator.IsEmpty(r.FromDate) || !fromValid {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be in YYYY-MM-DD format",
		})
	}
	to, toValid := validator.IsValidDate(r.ToDate)
	if validator.IsEmpty(r.ToDate) || !toValid {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be in YYYY-MM-DD format",
		})
	}
	if fromValid && toValid && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must not be before from_date",
		})
	}

	for i, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_ids[" + validator.Itoa(i) + "]",
				Message: "employee id must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecalculateResponse struct {
	EmployeesProcessed int    `json:"employees_processed"`
	DaysCalculated     int    `json:"days_calculated"`
	ErrorDays          int    `json:"error_days"`
	Duration           string `json:"duration"`
}

// DayBooking is the booking detail embedded in a timesheet day row.
type DayBooking struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	Direction string `json:"direction"`
	Origin    string `json:"origin"`
}

type DayResponse struct {
	Date                  string       `json:"date"`
	Weekday               string       `json:"weekday"`
	TargetMinutes         int          `json:"target_minutes"`
	GrossMinutes          int          `json:"gross_minutes"`
	BreakMinutes          int          `json:"break_minutes"`
	PresenceMinutes       int          `json:"presence_minutes"`
	CreditMinutes         int          `json:"credit_minutes"`
	NetMinutes            int          `json:"net_minutes"`
	OvertimeMinutes       int          `json:"overtime_minutes"`
	UndertimeMinutes      int          `json:"undertime_minutes"`
	FlextimeChangeMinutes int          `json:"flextime_change_minutes"`
	Codes                 []string     `json:"codes"`
	AbsenceCode           *string      `json:"absence_code,omitempty"`
	HolidayName           *string      `json:"holiday_name,omitempty"`
	Bookings              []DayBooking `json:"bookings"`
}

type MonthSummary struct {
	TargetMinutes             int     `json:"target_minutes"`
	GrossMinutes              int     `json:"gross_minutes"`
	BreakMinutes              int     `json:"break_minutes"`
	PresenceMinutes           int     `json:"presence_minutes"`
	CreditMinutes             int     `json:"credit_minutes"`
	NetMinutes                int     `json:"net_minutes"`
	OvertimeMinutes           int     `json:"overtime_minutes"`
	UndertimeMinutes          int     `json:"undertime_minutes"`
	FlextimeStartMinutes      int     `json:"flextime_start_minutes"`
	FlextimeChangeMinutes     int     `json:"flextime_change_minutes"`
	FlextimeAdjustmentMinutes int     `json:"flextime_adjustment_minutes"`
	FlextimeEndMinutes        int     `json:"flextime_end_minutes"`
	ErrorDays                 int     `json:"error_days"`
	Closed                    bool    `json:"closed"`
	ClosedAt                  *string `json:"closed_at,omitempty"`
	ClosedBy                  *string `json:"closed_by,omitempty"`
	ClosedReason              *string `json:"closed_reason,omitempty"`
}

type TimesheetResponse struct {
	EmployeeID   string        `json:"employee_id"`
	EmployeeName string        `json:"employee_name"`
	Month        string        `json:"month"`
	Days         []DayResponse `json:"days"`

	// Summary is nil until the month has been calculated.
	Summary *MonthSummary `json:"summary,omitempty"`
}

type MonthlyValueResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Month        string `json:"month"`
	MonthSummary
}

type CloseMonthRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty means all active employees
	Month       string   `json:"month"`                  // YYYY-MM
	Reason      string   `json:"reason"`
	Force       bool     `json:"force"`
}

func (r *CloseMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidMonth(r.Month); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}
	if len(r.Reason) < 10 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least 10 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SkippedEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

type CloseMonthResponse struct {
	Month     string            `json:"month"`
	Processed int               `json:"processed"`
	Skipped   []SkippedEmployee `json:"skipped"`
}

type ReopenMonthRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty means all closed employees
	Month       string   `json:"month"`                  // YYYY-MM
	Reason      string   `json:"reason"`
}

func (r *ReopenMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidMonth(r.Month); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}
	if len(r.Reason) < 10 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least 10 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
