package service

import "errors"

// Expected failure conditions. Handlers map these to HTTP statuses; anything
// else is an internal fault and surfaces as a generic 500.
var (
	// ErrInvalidCredentials covers a missing user, a wrong password and a
	// password attempt against a Google-only account. Deliberately one error
	// so the response never leaks which case occurred.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRateLimited is returned when too many reset requests were made for
	// the same email within the window
	ErrRateLimited = errors.New("too many password reset requests")

	// ErrInvalidGoogleToken is returned when Google rejects the access token
	ErrInvalidGoogleToken = errors.New("invalid google access token")

	// ErrGoogleEmailMissing is returned when the userinfo response carries no email
	ErrGoogleEmailMissing = errors.New("google account has no email")

	// ErrInvalidResetToken is returned when no pending reset matches the
	// supplied token or the match has expired
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrUserNotFound is returned when a valid session token points at a
	// record that no longer exists
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned for a malformed, tampered or expired
	// session token
	ErrInvalidToken = errors.New("invalid or expired session token")
)
