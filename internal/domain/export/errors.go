package export

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberExists = errors.New("an account with this number already exists")
	ErrAccountInUse        = errors.New("account is assigned to an export interface")
	ErrInterfaceNotFound   = errors.New("export interface not found")
	ErrAssignmentNotFound  = errors.New("account assignment not found")
	ErrAssignmentExists    = errors.New("account is already assigned to this interface")
	ErrNoAssignments       = errors.New("export interface has no account assignments")
	ErrNoClosedValues      = errors.New("no closed monthly values exist for this month")
	ErrRunNotFound         = errors.New("export run not found")
)
