package booking

import "errors"

// Sentinel errors of the lifecycle engine. Handlers map these onto the HTTP
// taxonomy with errors.Is.
var (
	ErrValidation        = errors.New("invalid booking input")
	ErrNotFound          = errors.New("booking not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrForbidden         = errors.New("not authorized for this booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
