package deduction

import "errors"

var ErrNotFound = errors.New("deduction not found")
