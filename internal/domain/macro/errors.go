package macro

import "errors"

var (
	ErrMacroNotFound = errors.New("macro not found")
	ErrMacroInactive = errors.New("macro is inactive")
)
