package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest carries the access token obtained by the SPA from Google.
type GoogleAuthRequest struct {
	AccessToken string `json:"accessToken"`
}

// ForgotPasswordRequest starts the password-reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest consumes a reset token
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserResponse is the externally visible user record. Password and
// reset-token fields are never part of it.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AuthResponse is returned by register, login and google sign-in.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MessageResponse represents a generic success message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
