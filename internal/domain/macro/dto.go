package macro

import (
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type CreateMacroRequest struct {
	Name       string  `json:"name"`
	Action     string  `json:"action"`
	Schedule   string  `json:"schedule"`
	RunDay     int     `json:"run_day"`
	RunMonth   int     `json:"run_month"`
	TariffID   *string `json:"tariff_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Active     bool    `json:"active"`
}

func (r *CreateMacroRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsInSlice(r.Action, ValidActions) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is not a known macro action",
		})
	}
	if !validator.IsInSlice(r.Schedule, ValidSchedules) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule",
			Message: "schedule must be one of: manual, monthly, yearly",
		})
	}

	// Day 29-31 would skip short months, so scheduled runs are
	// restricted to days every month has.
	if r.Schedule != string(ScheduleManual) {
		if r.RunDay < 1 || r.RunDay > 28 {
			errs = append(errs, validator.ValidationError{
				Field:   "run_day",
				Message: "run_day must be between 1 and 28",
			})
		}
	}
	if r.Schedule == string(ScheduleYearly) {
		if r.RunMonth < 1 || r.RunMonth > 12 {
			errs = append(errs, validator.ValidationError{
				Field:   "run_month",
				Message: "run_month must be between 1 and 12",
			})
		}
	}

	if r.TariffID != nil && *r.TariffID != "" && r.EmployeeID != nil && *r.EmployeeID != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "a macro is scoped to a tariff or an employee, not both",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateMacroRequest struct {
	ID         string  `json:"-"`
	Name       *string `json:"name,omitempty"`
	Action     *string `json:"action,omitempty"`
	Schedule   *string `json:"schedule,omitempty"`
	RunDay     *int    `json:"run_day,omitempty"`
	RunMonth   *int    `json:"run_month,omitempty"`
	TariffID   *string `json:"tariff_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

func (r *UpdateMacroRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Action != nil && !validator.IsInSlice(*r.Action, ValidActions) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is not a known macro action",
		})
	}
	if r.Schedule != nil && !validator.IsInSlice(*r.Schedule, ValidSchedules) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule",
			Message: "schedule must be one of: manual, monthly, yearly",
		})
	}
	if r.RunDay != nil && (*r.RunDay < 1 || *r.RunDay > 28) {
		errs = append(errs, validator.ValidationError{
			Field:   "run_day",
			Message: "run_day must be between 1 and 28",
		})
	}
	if r.RunMonth != nil && (*r.RunMonth < 1 || *r.RunMonth > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "run_month",
			Message: "run_month must be between 1 and 12",
		})
	}
	if r.TariffID != nil && *r.TariffID != "" && r.EmployeeID != nil && *r.EmployeeID != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "a macro is scoped to a tariff or an employee, not both",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MacroResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Action     string  `json:"action"`
	Schedule   string  `json:"schedule"`
	RunDay     int     `json:"run_day"`
	RunMonth   int     `json:"run_month"`
	TariffID   *string `json:"tariff_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Active     bool    `json:"active"`
	LastRunAt  *string `json:"last_run_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// RunResult summarizes one macro execution.
type RunResult struct {
	MacroID            string `json:"macro_id"`
	Name               string `json:"name"`
	Action             string `json:"action"`
	EmployeesProcessed int    `json:"employees_processed"`
	AdjustmentMinutes  int    `json:"adjustment_minutes"`
}
