package domain

import "time"

// Authentication providers. Provider records how the account was originally
// established; a local account may later gain a Google linkage without
// changing its provider tag.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents an account in the system. PasswordHash is nil for accounts
// created through Google sign-in that never set a password. ResetTokenHash and
// ResetTokenExpiresAt are either both set (a reset is pending) or both nil.
type User struct {
	ID                  string     `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        *string    `json:"-" db:"password_hash"`
	GoogleID            *string    `json:"-" db:"google_id"`
	Avatar              *string    `json:"avatar,omitempty" db:"avatar"`
	Provider            string     `json:"provider" db:"provider"`
	ResetTokenHash      *string    `json:"-" db:"reset_token_hash"`
	ResetTokenExpiresAt *time.Time `json:"-" db:"reset_token_expires_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// SetResetToken stores the one-way digest of a pending reset token.
func (u *User) SetResetToken(digest string, expiresAt time.Time) {
	u.ResetTokenHash = &digest
	u.ResetTokenExpiresAt = &expiresAt
}

// ClearResetToken removes a pending reset token. Called on consumption so a
// token can never be used twice.
func (u *User) ClearResetToken() {
	u.ResetTokenHash = nil
	u.ResetTokenExpiresAt = nil
}
