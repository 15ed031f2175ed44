package user

import "github.com/zmi-time/zmi-backend-go/internal/pkg/validator"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string  `json:"id"`
	TenantID    *string `json:"tenant_id,omitempty"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CreateUserRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	TenantID    *string `json:"tenant_id"` // nil creates a cross-tenant admin
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.DisplayName) {
		errs = append(errs, validator.ValidationError{
			Field:   "display_name",
			Message: "display_name is required",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !validator.IsInSlice(r.Role, ValidRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of admin, manager, viewer",
		})
	}

	// Admins administrate across tenants, every other role is bound to
	// exactly one tenant.
	if r.Role == string(RoleAdmin) {
		if r.TenantID != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "tenant_id",
				Message: "tenant_id must not be set for admin accounts",
			})
		}
	} else if validator.IsInSlice(r.Role, ValidRoles) {
		if r.TenantID == nil || validator.IsEmpty(*r.TenantID) {
			errs = append(errs, validator.ValidationError{
				Field:   "tenant_id",
				Message: "tenant_id is required for manager and viewer accounts",
			})
		} else if !validator.IsValidUUID(*r.TenantID) {
			errs = append(errs, validator.ValidationError{
				Field:   "tenant_id",
				Message: "tenant_id must be a valid UUID",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateUserRequest struct {
	ID          string  `json:"-"`
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Password    *string `json:"password"`
	Active      *bool   `json:"active"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DisplayName != nil && validator.IsEmpty(*r.DisplayName) {
		errs = append(errs, validator.ValidationError{
			Field:   "display_name",
			Message: "display_name must not be empty",
		})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, ValidRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of admin, manager, viewer",
		})
	}

	if r.Password != nil {
		if len(*r.Password) < 8 {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must be at least 8 characters long",
			})
		} else if len(*r.Password) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must not exceed 255 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
