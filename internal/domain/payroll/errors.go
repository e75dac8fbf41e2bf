package payroll

import "errors"

var (
	ErrNotFound             = errors.New("payment not found")
	ErrNegativeValue        = errors.New("rule value must not be negative")
	ErrInvalidDeductionType = errors.New("unknown deduction type")
	ErrNegativeHours        = errors.New("hours must not be negative")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrHoursUnavailable     = errors.New("hours are required for hourly employees")
)
