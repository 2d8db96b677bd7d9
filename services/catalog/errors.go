package catalog

import "errors"

var (
	ErrValidation = errors.New("invalid service input")
	ErrNotFound   = errors.New("service not found")
	ErrForbidden  = errors.New("not the owner of this service")
)
