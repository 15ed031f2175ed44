package access

import (
	"fmt"

	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type CreateZoneRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateZoneRequest) Validate() error {
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

type UpdateZoneRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateZoneRequest) Validate() error {
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

type ZoneResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type EntryRequest struct {
	ZoneID   string  `json:"zone_id"`
	Weekdays [7]bool `json:"weekdays"` // Monday first
	From     string  `json:"from"`     // HH:MM
	To       string  `json:"to"`       // HH:MM

	// Resolved from From and To during validation.
	FromMinute int `json:"-"`
	ToMinute   int `json:"-"`
}

type CreateProfileRequest struct {
	Name    string         `json:"name"`
	Entries []EntryRequest `json:"entries"`
}

func validateEntries(entries []EntryRequest) validator.ValidationErrors {
	var errs validator.ValidationErrors

	for i := range entries {
		e := &entries[i]
		field := func(name string) string {
			return fmt.Sprintf("entries[%d].%s", i, name)
		}

		if validator.IsEmpty(e.ZoneID) {
			errs = append(errs, validator.ValidationError{
				Field:   field("zone_id"),
				Message: "zone_id is required",
			})
		}

		anyDay := false
		for _, set := range e.Weekdays {
			if set {
				anyDay = true
				break
			}
		}
		if !anyDay {
			errs = append(errs, validator.ValidationError{
				Field:   field("weekdays"),
				Message: "at least one weekday must be set",
			})
		}

		from, fromValid := validator.IsValidTimeOfDay(e.From)
		if !fromValid {
			errs = append(errs, validator.ValidationError{
				Field:   field("from"),
				Message: "from must be in HH:MM format",
			})
		}
		to, toValid := validator.IsValidTimeOfDay(e.To)
		if !toValid {
			errs = append(errs, validator.ValidationError{
				Field:   field("to"),
				Message: "to must be in HH:MM format",
			})
		}
		if fromValid && toValid {
			if to <= from {
				errs = append(errs, validator.ValidationError{
					Field:   field("to"),
					Message: "to must be after from",
				})
			} else {
				e.FromMinute = from
				e.ToMinute = to
			}
		}
	}

	return errs
}

func (r *CreateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "at least one entry is required",
		})
	}
	errs = append(errs, validateEntries(r.Entries)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateProfileRequest replaces the entry list when Entries is present.
type UpdateProfileRequest struct {
	ID      string          `json:"-"`
	Name    *string         `json:"name,omitempty"`
	Entries *[]EntryRequest `json:"entries,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Entries != nil {
		if len(*r.Entries) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "entries",
				Message: "at least one entry is required",
			})
		}
		errs = append(errs, validateEntries(*r.Entries)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EntryResponse struct {
	ID       string  `json:"id"`
	ZoneID   string  `json:"zone_id"`
	ZoneName string  `json:"zone_name"`
	Weekdays [7]bool `json:"weekdays"`
	From     string  `json:"from"`
	To       string  `json:"to"`
}

type ProfileResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Entries   []EntryResponse `json:"entries"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// CheckRequest is sent by a door terminal before unlocking.
type CheckRequest struct {
	TenantCode  string `json:"tenant_code"`
	BadgeNumber string `json:"badge_number"`
	ZoneID      string `json:"zone_id"`
}

func (r *CheckRequest) Validate() error {
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
	if validator.IsEmpty(r.ZoneID) {
		errs = append(errs, validator.ValidationError{
			Field:   "zone_id",
			Message: "zone_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
