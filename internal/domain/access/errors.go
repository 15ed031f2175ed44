package access

import "errors"

var (
	ErrZoneNotFound    = errors.New("access zone not found")
	ErrZoneInUse       = errors.New("access zone is referenced by an access profile")
	ErrProfileNotFound = errors.New("access profile not found")
	ErrProfileInUse    = errors.New("access profile is assigned to employees")
)
