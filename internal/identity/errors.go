package identity

import "errors"

// Sentinel errors returned by the identity service.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidSort        = errors.New("invalid sort parameters")
)
