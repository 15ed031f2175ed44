package absence

import (
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type CreateTypeRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Credit   string `json:"credit"`
	Paid     bool   `json:"paid"`
}

func (r *CreateTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidAbsenceCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be one or two uppercase letters",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsInSlice(r.Category, ValidCategories) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: vacation, sickness, special, unpaid",
		})
	}
	if !validator.IsInSlice(r.Credit, ValidCredits) {
		errs = append(errs, validator.ValidationError{
			Field:   "credit",
			Message: "credit must be one of: full, half, none",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateTypeRequest struct {
	ID       string  `json:"-"`
	Code     *string `json:"code,omitempty"` // rejected when different from the stored code
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Credit   *string `json:"credit,omitempty"`
	Paid     *bool   `json:"paid,omitempty"`
}

func (r *UpdateTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Category != nil && !validator.IsInSlice(*r.Category, ValidCategories) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: vacation, sickness, special, unpaid",
		})
	}
	if r.Credit != nil && !validator.IsInSlice(*r.Credit, ValidCredits) {
		errs = append(errs, validator.ValidationError{
			Field:   "credit",
			Message: "credit must be one of: full, half, none",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TypeResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Credit    string `json:"credit"`
	Paid      bool   `json:"paid"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateAbsenceRequest struct {
	EmployeeID string  `json:"employee_id"`
	TypeID     string  `json:"type_id"`
	FromDate   string  `json:"from_date"` // YYYY-MM-DD
	ToDate     string  `json:"to_date"`   // YYYY-MM-DD
	HalfDay    bool    `json:"half_day"`
	Note       *string `json:"note,omitempty"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.TypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "type_id",
			Message: "type_id is required",
		})
	}

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

	if fromValid && toValid {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "to_date",
				Message: "to_date must not be before from_date",
			})
		}
		if r.HalfDay && !from.Equal(to) {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day",
				Message: "half_day is only valid for a single day absence",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateAbsenceRequest struct {
	ID       string  `json:"-"`
	TypeID   *string `json:"type_id,omitempty"`
	FromDate *string `json:"from_date,omitempty"`
	ToDate   *string `json:"to_date,omitempty"`
	HalfDay  *bool   `json:"half_day,omitempty"`
	Note     *string `json:"note,omitempty"`
}

func (r *UpdateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FromDate != nil {
		if _, valid := validator.IsValidDate(*r.FromDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "from_date",
				Message: "from_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.ToDate != nil {
		if _, valid := validator.IsValidDate(*r.ToDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "to_date",
				Message: "to_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AbsenceResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	TypeID     string  `json:"type_id"`
	TypeCode   string  `json:"type_code"`
	FromDate   string  `json:"from_date"`
	ToDate     string  `json:"to_date"`
	HalfDay    bool    `json:"half_day"`
	Note       *string `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type AbsenceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	TypeID     *string `json:"type_id,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *AbsenceFilter) Validate() error {
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
