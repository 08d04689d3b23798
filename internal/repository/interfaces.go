package repository

import (
	"context"
	"time"

	"github.com/cropsight/auth-service/internal/domain"
)

// UserRepository defines persistence operations for user accounts. The
// database's unique constraints on email and google_id are the only guard
// against concurrent duplicate inserts; violations surface as
// ErrDuplicateEmail / ErrDuplicateGoogleID.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByGoogleIDOrEmail prefers a match on the Google subject id and
	// falls back to the email address.
	GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error)

	// GetByValidResetTokenHash returns the user holding the given reset-token
	// digest whose expiry is still after now.
	GetByValidResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	Update(ctx context.Context, user *domain.User) error
}
