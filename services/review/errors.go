package review

import "errors"

var (
	ErrValidation      = errors.New("invalid review input")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("not the client of this booking")
	ErrInvalidState    = errors.New("only completed bookings can be reviewed")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)
