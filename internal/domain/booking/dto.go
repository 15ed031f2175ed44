package booking

import (
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

// PunchRequest is sent by a hardware terminal. The tenant is identified by
// its code because terminals do not authenticate as users. When no direction
// is given the punch toggles against the employee's last booking of the day.
type PunchRequest struct {
	TenantCode  string  `json:"tenant_code"`
	BadgeNumber string  `json:"badge_number"`
	Direction   *string `json:"direction,omitempty"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TenantCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "tenant_code",
			Message: "tenant_code is required",
		})
	}
	if validator.IsEmpty(r.BadgeNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "badge_number",
			Message: "badge_number is required",
		})
	} else if !validator.IsValidBadgeNumber(r.BadgeNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "badge_number",
			Message: "badge_number must be 1-20 digits",
		})
	}
	if r.Direction != nil && !validator.IsInSlice(*r.Direction, ValidDirections) {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be either come or go",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Direction    string `json:"direction"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

type CreateBookingRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Time       string  `json:"time"` // HH:MM
	Direction  string  `json:"direction"`
	Note       *string `json:"note,omitempty"`

	// Minute is resolved from Time during validation.
	Minute int `json:"-"`
}

func (r *CreateBookingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Time) {
		errs = append(errs, validator.ValidationError{
			Field:   "time",
			Message: "time is required",
		})
	} else if minute, valid := validator.IsValidTimeOfDay(r.Time); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "time",
			Message: "time must be in HH:MM format",
		})
	} else {
		r.Minute = minute
	}

	if !validator.IsInSlice(r.Direction, ValidDirections) {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be either come or go",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateBookingRequest struct {
	ID        string  `json:"-"`
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
	Direction *string `json:"direction,omitempty"`
	Note      *string `json:"note,omitempty"`

	// Minute is resolved from Time during validation.
	Minute *int `json:"-"`
}

func (r *UpdateBookingRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Time != nil {
		if minute, valid := validator.IsValidTimeOfDay(*r.Time); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: "time must be in HH:MM format",
			})
		} else {
			r.Minute = &minute
		}
	}
	if r.Direction != nil && !validator.IsInSlice(*r.Direction, ValidDirections) {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be either come or go",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BookingResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Direction  string  `json:"direction"`
	Origin     string  `json:"origin"`
	Note       *string `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type BookingFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *BookingFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.From != nil && *f.From != "" {
		if _, valid := validator.IsValidDate(*f.From); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.To != nil && *f.To != "" {
		if _, valid := validator.IsValidDate(*f.To); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// StatusEntry describes the current presence of one employee.
type StatusEntry struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	Present      bool    `json:"present"`
	LastTime     *string `json:"last_time,omitempty"`
}

// StatusResponse is the live presence board for one tenant.
type StatusResponse struct {
	Date         string        `json:"date"`
	PresentCount int           `json:"present_count"`
	AbsentCount  int           `json:"absent_count"`
	Entries      []StatusEntry `json:"entries"`
}
