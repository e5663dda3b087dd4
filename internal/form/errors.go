package form

import "errors"

var (
	ErrInvalidTransition = errors.New("action not allowed in current form state")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownGroup      = errors.New("unknown option group")
	ErrUnknownOption     = errors.New("unknown option")
)
