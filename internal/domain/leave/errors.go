package leave

import "errors"

var (
	ErrNotFound       = errors.New("leave request not found")
	ErrInvalidRange   = errors.New("end date before start date")
	ErrInvalidHalfDay = errors.New("invalid half-day range")
	ErrNotPending     = errors.New("leave request already decided")
)
