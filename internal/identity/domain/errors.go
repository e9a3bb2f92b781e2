package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrProfileWrite means the account exists but its profile document
	// could not be written.
	ErrProfileWrite = errors.New("failed to write user profile")
)
