package service

import (
	"context"

	"github.com/cropsight/auth-service/internal/dto"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*dto.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	GoogleAuth(ctx context.Context, accessToken string) (*dto.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ValidateToken(ctx context.Context, token string) (string, error)
}

// ResetRateLimiter bounds how often a password reset may be requested for one
// identity. The default backend is a process-local map; a Redis backend is
// available for multi-instance deployments where the limit must be global.
type ResetRateLimiter interface {
	// Allow reports whether another attempt for key is permitted and, when it
	// is, records the attempt.
	Allow(ctx context.Context, key string) (bool, error)
}
