package tenant

import "errors"

var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrTenantCodeExists = errors.New("tenant code already exists")
	ErrTenantInUse      = errors.New("tenant still has employees and cannot be deleted")
	ErrInvalidTimezone  = errors.New("invalid timezone name")
)
