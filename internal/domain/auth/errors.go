package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrTenantRequired      = errors.New("no tenant selected for this request")
	ErrAdminRequired       = errors.New("admin role required")
	ErrManagerRequired     = errors.New("manager role required")
)
