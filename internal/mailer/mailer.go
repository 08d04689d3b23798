// Package mailer delivers transactional email. Delivery is best-effort: a
// failed send must never reveal account existence to an API caller.
package mailer

import "context"

// Mailer sends the password-reset email. The plaintext token is embedded in
// the reset link; it is never persisted.
type Mailer interface {
	SendResetEmail(ctx context.Context, to, resetToken string) error
}
