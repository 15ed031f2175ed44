package tariff

import (
	"fmt"

	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type BreakRuleRequest struct {
	AfterMinutes int `json:"after_minutes"`
	BreakMinutes int `json:"break_minutes"`
}

type CreateDayPlanRequest struct {
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	TargetMinutes      int                `json:"target_minutes"`
	FrameStart         string             `json:"frame_start"` // HH:MM, empty disables the frame
	FrameEnd           string             `json:"frame_end"`
	RoundComeUpMinutes int                `json:"round_come_up_minutes"`
	RoundGoDownMinutes int                `json:"round_go_down_minutes"`
	GraceComeMinutes   int                `json:"grace_come_minutes"`
	BreakStart         string             `json:"break_start"` // HH:MM, empty disables the window
	BreakEnd           string             `json:"break_end"`
	BreakRules         []BreakRuleRequest `json:"break_rules"`

	// Resolved by Validate
	FrameStartMinutes int `json:"-"`
	FrameEndMinutes   int `json:"-"`
	BreakStartMinutes int `json:"-"`
	BreakEndMinutes   int `json:"-"`
}

func (r *CreateDayPlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.TargetMinutes < 0 || r.TargetMinutes > 1440 {
		errs = append(errs, validator.ValidationError{
			Field:   "target_minutes",
			Message: "target_minutes must be between 0 and 1440",
		})
	}

	errs = append(errs, validateWindow("frame", r.FrameStart, r.FrameEnd, &r.FrameStartMinutes, &r.FrameEndMinutes)...)
	errs = append(errs, validateWindow("break", r.BreakStart, r.BreakEnd, &r.BreakStartMinutes, &r.BreakEndMinutes)...)

	if r.RoundComeUpMinutes < 0 || r.RoundComeUpMinutes > 60 {
		errs = append(errs, validator.ValidationError{
			Field:   "round_come_up_minutes",
			Message: "round_come_up_minutes must be between 0 and 60",
		})
	}
	if r.RoundGoDownMinutes < 0 || r.RoundGoDownMinutes > 60 {
		errs = append(errs, validator.ValidationError{
			Field:   "round_go_down_minutes",
			Message: "round_go_down_minutes must be between 0 and 60",
		})
	}
	if r.GraceComeMinutes < 0 || r.GraceComeMinutes > 120 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_come_minutes",
			Message: "grace_come_minutes must be between 0 and 120",
		})
	}

	prev := -1
	for i, rule := range r.BreakRules {
		if rule.AfterMinutes <= prev {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("break_rules[%d].after_minutes", i),
				Message: "break rule thresholds must be ascending",
			})
		}
		if rule.BreakMinutes <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("break_rules[%d].break_minutes", i),
				Message: "break_minutes must be positive",
			})
		}
		prev = rule.AfterMinutes
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// validateWindow parses an optional HH:MM window. Both bounds must be given
// together and the end must lie after the start.
func validateWindow(name, start, end string, startOut, endOut *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if start == "" && end == "" {
		*startOut, *endOut = 0, 0
		return nil
	}
	if start == "" || end == "" {
		errs = append(errs, validator.ValidationError{
			Field:   name + "_start",
			Message: name + " window needs both start and end",
		})
		return errs
	}

	startMin, ok := validator.IsValidTimeOfDay(start)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   name + "_start",
			Message: name + "_start must be in HH:MM format",
		})
	}
	endMin, ok := validator.IsValidTimeOfDay(end)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   name + "_end",
			Message: name + "_end must be in HH:MM format",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	if endMin <= startMin {
		errs = append(errs, validator.ValidationError{
			Field:   name + "_end",
			Message: name + "_end must be after " + name + "_start",
		})
		return errs
	}

	*startOut, *endOut = startMin, endMin
	return nil
}

type UpdateDayPlanRequest struct {
	ID                 string              `json:"-"`
	Name               *string             `json:"name,omitempty"`
	TargetMinutes      *int                `json:"target_minutes,omitempty"`
	FrameStart         *string             `json:"frame_start,omitempty"`
	FrameEnd           *string             `json:"frame_end,omitempty"`
	RoundComeUpMinutes *int                `json:"round_come_up_minutes,omitempty"`
	RoundGoDownMinutes *int                `json:"round_go_down_minutes,omitempty"`
	GraceComeMinutes   *int                `json:"grace_come_minutes,omitempty"`
	BreakStart         *string             `json:"break_start,omitempty"`
	BreakEnd           *string             `json:"break_end,omitempty"`
	BreakRules         *[]BreakRuleRequest `json:"break_rules,omitempty"`

	FrameStartMinutes *int `json:"-"`
	FrameEndMinutes   *int `json:"-"`
	BreakStartMinutes *int `json:"-"`
	BreakEndMinutes   *int `json:"-"`
}

func (r *UpdateDayPlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.TargetMinutes != nil && (*r.TargetMinutes < 0 || *r.TargetMinutes > 1440) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_minutes",
			Message: "target_minutes must be between 0 and 1440",
		})
	}

	if r.FrameStart != nil || r.FrameEnd != nil {
		if r.FrameStart == nil || r.FrameEnd == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "frame_start",
				Message: "frame window needs both start and end",
			})
		} else {
			var start, end int
			errs = append(errs, validateWindow("frame", *r.FrameStart, *r.FrameEnd, &start, &end)...)
			r.FrameStartMinutes, r.FrameEndMinutes = &start, &end
		}
	}
	if r.BreakStart != nil || r.BreakEnd != nil {
		if r.BreakStart == nil || r.BreakEnd == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "break_start",
				Message: "break window needs both start and end",
			})
		} else {
			var start, end int
			errs = append(errs, validateWindow("break", *r.BreakStart, *r.BreakEnd, &start, &end)...)
			r.BreakStartMinutes, r.BreakEndMinutes = &start, &end
		}
	}

	if r.BreakRules != nil {
		prev := -1
		for i, rule := range *r.BreakRules {
			if rule.AfterMinutes <= prev {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("break_rules[%d].after_minutes", i),
					Message: "break rule thresholds must be ascending",
				})
			}
			if rule.BreakMinutes <= 0 {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("break_rules[%d].break_minutes", i),
					Message: "break_minutes must be positive",
				})
			}
			prev = rule.AfterMinutes
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DayPlanResponse struct {
	ID                 string             `json:"id"`
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	TargetMinutes      int                `json:"target_minutes"`
	FrameStart         string             `json:"frame_start,omitempty"`
	FrameEnd           string             `json:"frame_end,omitempty"`
	RoundComeUpMinutes int                `json:"round_come_up_minutes"`
	RoundGoDownMinutes int                `json:"round_go_down_minutes"`
	GraceComeMinutes   int                `json:"grace_come_minutes"`
	BreakStart         string             `json:"break_start,omitempty"`
	BreakEnd           string             `json:"break_end,omitempty"`
	BreakRules         []BreakRuleRequest `json:"break_rules"`
	CreatedAt          string             `json:"created_at"`
	UpdatedAt          string             `json:"updated_at"`
}

type CreateTariffRequest struct {
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	WeekdayPlanIDs     [7]*string `json:"weekday_plan_ids"` // Monday..Sunday, null = free day
	FlextimeCapMinutes int        `json:"flextime_cap_minutes"`
}

func (r *CreateTariffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	for i, id := range r.WeekdayPlanIDs {
		if id != nil && validator.IsEmpty(*id) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("weekday_plan_ids[%d]", i),
				Message: "plan id must not be empty, use null for a free day",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateTariffRequest struct {
	ID                 string      `json:"-"`
	Name               *string     `json:"name,omitempty"`
	WeekdayPlanIDs     *[7]*string `json:"weekday_plan_ids,omitempty"`
	FlextimeCapMinutes *int        `json:"flextime_cap_minutes,omitempty"`
}

func (r *UpdateTariffRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.WeekdayPlanIDs != nil {
		for i, id := range *r.WeekdayPlanIDs {
			if id != nil && validator.IsEmpty(*id) {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("weekday_plan_ids[%d]", i),
					Message: "plan id must not be empty, use null for a free day",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TariffResponse struct {
	ID                 string     `json:"id"`
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	WeekdayPlanIDs     [7]*string `json:"weekday_plan_ids"`
	FlextimeCapMinutes int        `json:"flextime_cap_minutes"`
	CreatedAt          string     `json:"created_at"`
	UpdatedAt          string     `json:"updated_at"`
}
