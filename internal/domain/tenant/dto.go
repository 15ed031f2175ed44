package tenant

import (
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type CreateTenantRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Timezone    string  `json:"timezone"`
	NotifyEmail *string `json:"notify_email,omitempty"`
}

func (r *CreateTenantRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidTenantCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code may only contain letters, numbers, underscores and hyphens (2-20 characters)",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone is required",
		})
	} else if _, err := time.LoadLocation(r.Timezone); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA name, e.g. Europe/Berlin",
		})
	}

	if r.NotifyEmail != nil && !validator.IsValidEmail(*r.NotifyEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "notify_email",
			Message: "notify_email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateTenantRequest struct {
	ID          string  `json:"-"`
	Code        *string `json:"code,omitempty"` // rejected when different from the stored code
	Name        *string `json:"name,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	NotifyEmail *string `json:"notify_email,omitempty"`
}

func (r *UpdateTenantRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		} else if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 255 characters",
			})
		}
	}

	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA name, e.g. Europe/Berlin",
			})
		}
	}

	if r.NotifyEmail != nil && *r.NotifyEmail != "" && !validator.IsValidEmail(*r.NotifyEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "notify_email",
			Message: "notify_email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TenantResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Timezone    string  `json:"timezone"`
	NotifyEmail *string `json:"notify_email,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListTenantResponse struct {
	TotalCount int64            `json:"total_count"`
	Tenants    []TenantResponse `json:"tenants"`
}
