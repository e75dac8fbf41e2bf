package attendance

import "errors"

var (
	ErrNotFound           = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("employee already checked in on this date")
	ErrAlreadyCheckedOut  = errors.New("attendance record already checked out")
	ErrCheckOutBeforeIn   = errors.New("check-out must be after check-in")
	ErrInvalidWorkdayTime = errors.New("company workday start is not HH:MM")
)
