package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateGoogleID is returned when trying to link a Google subject id
	// that is already attached to another user
	ErrDuplicateGoogleID = errors.New("google account already linked to another user")
)
