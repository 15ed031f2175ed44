package export

import (
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type CreateAccountRequest struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Source string `json:"source"`
	Unit   string `json:"unit"`
}

func (r *CreateAccountRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Number) {
		errs = append(errs, validator.ValidationError{
			Field:   "number",
			Message: "number is required",
		})
	} else if !validator.IsValidAccountNumber(r.Number) {
		errs = append(errs, validator.ValidationError{
			Field:   "number",
			Message: "number must be 1-10 digits",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsInSlice(r.Source, ValidSources) {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source is not a known value source",
		})
	}
	if !validator.IsInSlice(r.Unit, ValidUnits) {
		errs = append(errs, validator.ValidationError{
			Field:   "unit",
			Message: "unit must be either hours or days",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateAccountRequest struct {
	ID     string  `json:"-"`
	Number *string `json:"number,omitempty"`
	Name   *string `json:"name,omitempty"`
	Source *string `json:"source,omitempty"`
	Unit   *string `json:"unit,omitempty"`
}

func (r *UpdateAccountRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Number != nil && !validator.IsValidAccountNumber(*r.Number) {
		errs = append(errs, validator.ValidationError{
			Field:   "number",
			Message: "number must be 1-10 digits",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Source != nil && !validator.IsInSlice(*r.Source, ValidSources) {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source is not a known value source",
		})
	}
	if r.Unit != nil && !validator.IsInSlice(*r.Unit, ValidUnits) {
		errs = append(errs, validator.ValidationError{
			Field:   "unit",
			Message: "unit must be either hours or days",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AccountResponse struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	Unit      string `json:"unit"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateInterfaceRequest struct {
	Name string `json:"name"`
}

func (r *CreateInterfaceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateInterfaceRequest struct {
	ID   string  `json:"-"`
	Name *string `json:"name,omitempty"`
}

func (r *UpdateInterfaceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignmentResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Source        string `json:"source"`
	Unit          string `json:"unit"`
	Position      int    `json:"position"`
}

type InterfaceResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Assignments []AssignmentResponse `json:"assignments"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

type AddAssignmentRequest struct {
	AccountID string `json:"account_id"`
}

func (r *AddAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AccountID) {
		errs = append(errs, validator.ValidationError{
			Field:   "account_id",
			Message: "account_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReplaceAssignmentsRequest swaps the complete export order in one
// call, the way the dual-list editor saves it. An empty list clears
// the assignment.
type ReplaceAssignmentsRequest struct {
	AccountIDs []string `json:"account_ids"`
}

func (r *ReplaceAssignmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	seen := make(map[string]bool, len(r.AccountIDs))
	for _, id := range r.AccountIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "account_ids",
				Message: "account_ids must not contain empty entries",
			})
			break
		}
		if seen[id] {
			errs = append(errs, validator.ValidationError{
				Field:   "account_ids",
				Message: "account_ids must not contain duplicates",
			})
			break
		}
		seen[id] = true
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

const (
	MoveUp   = "up"
	MoveDown = "down"
)

type MoveAssignmentRequest struct {
	Direction string `json:"direction"`
}

func (r *MoveAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Direction, []string{MoveUp, MoveDown}) {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be either up or down",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RunExportRequest struct {
	InterfaceID string `json:"-"`
	Month       string `json:"month"` // YYYY-MM
}

func (r *RunExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidMonth(r.Month); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RunResponse struct {
	ID            string `json:"id"`
	InterfaceID   string `json:"interface_id"`
	InterfaceName string `json:"interface_name"`
	Month         string `json:"month"`
	FileName      string `json:"file_name"`
	LineCount     int    `json:"line_count"`
	RanBy         string `json:"ran_by"`
	RanAt         string `json:"ran_at"`
}
