package company

import "errors"

var (
	ErrNotFound          = errors.New("company not found")
	ErrAlreadySetUp      = errors.New("user already belongs to a company")
	ErrInvalidWorkday    = errors.New("workday times must be HH:MM with start before end")
	ErrInvalidRole       = errors.New("invitation role must be admin or member")
	ErrInvitationInvalid = errors.New("invitation is unknown, expired or already used")
)
