package benefit

import "errors"

var (
	ErrNotFound          = errors.New("benefit not found")
	ErrInvalidExpression = errors.New("invalid eligibility expression")
)
