package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cropsight/auth-service/internal/domain"
	"github.com/cropsight/auth-service/internal/dto"
	"github.com/cropsight/auth-service/internal/mailer"
	"github.com/cropsight/auth-service/internal/oauth"
	"github.com/cropsight/auth-service/internal/repository"
	"github.com/cropsight/auth-service/internal/utils"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	userRepo      repository.UserRepository
	jwtManager    *utils.JWTManager
	verifier      oauth.Verifier
	mailer        mailer.Mailer
	resetLimiter  ResetRateLimiter
	logger        *zap.Logger
	bcryptCost    int
	resetTokenTTL time.Duration
	mailTimeout   time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	verifier oauth.Verifier,
	resetMailer mailer.Mailer,
	resetLimiter ResetRateLimiter,
	logger *zap.Logger,
	bcryptCost int,
	resetTokenTTL time.Duration,
	mailTimeout time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtManager:    jwtManager,
		verifier:      verifier,
		mailer:        resetMailer,
		resetLimiter:  resetLimiter,
		logger:        logger,
		bcryptCost:    bcryptCost,
		resetTokenTTL: resetTokenTTL,
		mailTimeout:   mailTimeout,
	}
}

// Register creates a local account. Email uniqueness is enforced by the
// store; a concurrent duplicate insert fails there rather than here.
func (s *authService) Register(ctx context.Context, name, email, password string) (*dto.AuthResponse, error) {
	passwordHash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        utils.SanitizeEmail(email),
		PasswordHash: &passwordHash,
		Provider:     domain.ProviderLocal,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

// Login authenticates a local account. A missing user, a wrong password and a
// Google-only account all fail with the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// GoogleAuth exchanges a Google access token for a session. An unknown
// identity creates a new account; a known email gains the Google linkage
// without losing local-login capability or its provider tag.
func (s *authService) GoogleAuth(ctx context.Context, accessToken string) (*dto.AuthResponse, error) {
	info, err := s.verifier.UserInfo(ctx, accessToken)
	if err != nil {
		if errors.Is(err, oauth.ErrTokenRejected) {
			return nil, ErrInvalidGoogleToken
		}
		return nil, fmt.Errorf("failed to verify google token: %w", err)
	}

	if info.Email == "" {
		return nil, ErrGoogleEmailMissing
	}

	email := utils.SanitizeEmail(info.Email)

	user, err := s.userRepo.GetByGoogleIDOrEmail(ctx, info.Sub, email)
	switch {
	case err == nil:
		if user.GoogleID == nil {
			user.GoogleID = &info.Sub
			if user.Avatar == nil && info.Picture != "" {
				user.Avatar = &info.Picture
			}
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
		}

	case errors.Is(err, repository.ErrNotFound):
		user = &domain.User{
			Name:     info.Name,
			Email:    email,
			GoogleID: &info.Sub,
			Provider: domain.ProviderGoogle,
		}
		if info.Picture != "" {
			user.Avatar = &info.Picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create google user: %w", err)
		}

	default:
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	return s.authResponse(user)
}

// GetUser returns the sanitized record for an authenticated user.
func (s *authService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// RequestPasswordReset starts the reset flow. Whether or not the account
// exists the caller sees the same outcome; only the rate limit is allowed to
// leak that requests for this identity are happening.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	key := utils.SanitizeEmail(email)

	allowed, err := s.resetLimiter.Allow(ctx, key)
	if err != nil {
		// Fail open: a broken limiter backend must not take down the flow.
		s.logger.Error("reset rate limiter failed", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return ErrRateLimited
	}

	user, err := s.userRepo.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	// A Google account that never set a password has nothing to reset.
	if user.Provider == domain.ProviderGoogle && !user.HasPassword() {
		return nil
	}

	plaintext, digest, err := utils.NewResetToken()
	if err != nil {
		return err
	}

	user.SetResetToken(digest, time.Now().Add(s.resetTokenTTL))
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// Best-effort delivery. The request already succeeded from the caller's
	// perspective; a send failure is logged, never surfaced.
	go s.sendResetEmail(user.Email, plaintext)

	return nil
}

func (s *authService) sendResetEmail(to, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
	defer cancel()

	if err := s.mailer.SendResetEmail(ctx, to, token); err != nil {
		s.logger.Error("failed to send reset email", zap.String("email", to), zap.Error(err))
	}
}

// ResetPassword consumes a reset token. Consumption clears the stored digest
// so a repeat attempt with the same token fails.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	digest := utils.HashResetToken(token)

	user, err := s.userRepo.GetByValidResetTokenHash(ctx, digest, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	passwordHash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &passwordHash
	user.ClearResetToken()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// ValidateToken verifies a session token and returns the user id it carries.
func (s *authService) ValidateToken(_ context.Context, token string) (string, error) {
	userID, err := s.jwtManager.Validate(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return userID, nil
}

func (s *authService) authResponse(user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func toUserResponse(user *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Avatar != nil {
		resp.Avatar = *user.Avatar
	}
	return resp
}
