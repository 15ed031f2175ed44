package employee

import (
	"strings"

	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Code            string  `json:"code"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	BadgeNumber     *string `json:"badge_number,omitempty"`
	TariffID        string  `json:"tariff_id"`
	AccessProfileID *string `json:"access_profile_id,omitempty"`
	EntryDate       string  `json:"entry_date"` // YYYY-MM-DD
	InitialFlextime int     `json:"initial_flextime_minutes"`
	HourlyWage      *string `json:"hourly_wage,omitempty"` // decimal string
	Active          *bool   `json:"active,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidEmployeeCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be digits with an optional dash group, e.g. 1001 or 0001-0042",
		})
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	}

	if r.BadgeNumber != nil && !validator.IsValidBadgeNumber(*r.BadgeNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "badge_number",
			Message: "badge_number must be 1-20 digits",
		})
	}

	if validator.IsEmpty(r.TariffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "tariff_id",
			Message: "tariff_id is required",
		})
	}

	if validator.IsEmpty(r.EntryDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_date",
			Message: "entry_date is required",
		})
	} else if _, valid := validator.IsValidDate(r.EntryDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_date",
			Message: "entry_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID              string  `json:"-"`
	Code            *string `json:"code,omitempty"` // rejected when different from the stored code
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	BadgeNumber     *string `json:"badge_number,omitempty"`
	TariffID        *string `json:"tariff_id,omitempty"`
	AccessProfileID *string `json:"access_profile_id,omitempty"`
	EntryDate       *string `json:"entry_date,omitempty"`
	ExitDate        *string `json:"exit_date,omitempty"`
	InitialFlextime *int    `json:"initial_flextime_minutes,omitempty"`
	HourlyWage      *string `json:"hourly_wage,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not be empty",
		})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not be empty",
		})
	}

	if r.BadgeNumber != nil && *r.BadgeNumber != "" && !validator.IsValidBadgeNumber(*r.BadgeNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "badge_number",
			Message: "badge_number must be 1-20 digits",
		})
	}

	if r.EntryDate != nil {
		if _, valid := validator.IsValidDate(*r.EntryDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "entry_date",
				Message: "entry_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.ExitDate != nil && *r.ExitDate != "" {
		if _, valid := validator.IsValidDate(*r.ExitDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "exit_date",
				Message: "exit_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	BadgeNumber     *string `json:"badge_number,omitempty"`
	TariffID        string  `json:"tariff_id"`
	AccessProfileID *string `json:"access_profile_id,omitempty"`
	EntryDate       string  `json:"entry_date"`
	ExitDate        *string `json:"exit_date,omitempty"`
	InitialFlextime int     `json:"initial_flextime_minutes"`
	HourlyWage      *string `json:"hourly_wage,omitempty"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type EmployeeFilter struct {
	// Search & Filter
	Search   *string `json:"search,omitempty"` // matches code, first or last name
	TariffID *string `json:"tariff_id,omitempty"`
	Active   *bool   `json:"active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // code, last_name, entry_date
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"code", "last_name", "entry_date"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: code, last_name, entry_date",
			})
		}
	} else {
		f.SortBy = "code" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
