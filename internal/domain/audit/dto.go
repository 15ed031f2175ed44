package audit

import (
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type EventFilter struct {
	Action     *string `json:"action,omitempty"`
	EntityType *string `json:"entity_type,omitempty"`
	UserID     *string `json:"user_id,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EventFilter) Validate() error {
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

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventResponse struct {
	ID         string                 `json:"id"`
	UserID     *string                `json:"user_id,omitempty"`
	UserEmail  string                 `json:"user_email"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *string                `json:"entity_id,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

type ListEventResponse struct {
	Events     []EventResponse `json:"events"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type EvaluationFilter struct {
	Trigger *string `json:"trigger,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EvaluationFilter) Validate() error {
	var errs validator.ValidationErrors

	validTriggers := []string{TriggerManual, TriggerBooking, TriggerAbsence, TriggerMacro, TriggerNightly}
	if f.Trigger != nil && *f.Trigger != "" && !validator.IsInSlice(*f.Trigger, validTriggers) {
		errs = append(errs, validator.ValidationError{
			Field:   "trigger",
			Message: "trigger is not a known evaluation trigger",
		})
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EvaluationResponse struct {
	ID                 string `json:"id"`
	Trigger            string `json:"trigger"`
	RanBy              string `json:"ran_by"`
	FromDate           string `json:"from_date"`
	ToDate             string `json:"to_date"`
	EmployeesProcessed int    `json:"employees_processed"`
	DaysCalculated     int    `json:"days_calculated"`
	ErrorDays          int    `json:"error_days"`
	DurationMS         int64  `json:"duration_ms"`
	CreatedAt          string `json:"created_at"`
}

type ListEvaluationResponse struct {
	Evaluations []EvaluationResponse `json:"evaluations"`
	TotalCount  int                  `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
}
