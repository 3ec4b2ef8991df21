package app

import "errors"

// Authorization-class failures are surfaced to callers as-is and never
// retried.
var (
	ErrMissingCredential = errors.New("credential is missing")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrIdentityMismatch  = errors.New("credential does not belong to the target identity")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUserNameExhausted = errors.New("could not generate a unique user name")
)
