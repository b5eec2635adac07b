package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the provided email and/or password
	// do not match any account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidCode is returned when the one-time code does not verify or no
	// candidate principal is pending.
	ErrInvalidCode = errors.New("invalid one-time code")
)
