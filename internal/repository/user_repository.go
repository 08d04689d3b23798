package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cropsight/auth-service/internal/domain"
	"github.com/cropsight/auth-service/pkg/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const userColumns = `id, name, email, password_hash, google_id, avatar, provider, reset_token_hash, reset_token_expires_at, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Provider == "" {
		user.Provider = domain.ProviderLocal
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.Avatar,
		user.Provider,
		user.ResetTokenHash,
		user.ResetTokenExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if uniqueErr := mapUniqueViolation(err, user); uniqueErr != nil {
			return uniqueErr
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email. Callers are expected to pass an
// already normalized (lowercased, trimmed) address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByGoogleIDOrEmail retrieves a user by Google subject id, falling back to
// the email address. The subject-id match wins when both exist.
func (r *userRepository) GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error) {
	byGoogleID := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`

	user, err := r.scanUser(r.db.DB.QueryRowContext(ctx, byGoogleID, googleID))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}

	return r.GetByEmail(ctx, email)
}

// GetByValidResetTokenHash retrieves the user holding a pending reset token
// with the given digest that has not yet expired.
func (r *userRepository) GetByValidResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $2
	`

	user, err := r.scanUser(r.db.DB.QueryRowContext(ctx, query, tokenHash, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no user with a valid reset token: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return user, nil
}

// Update persists all mutable fields of an existing user and touches
// updated_at.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, google_id = $5, avatar = $6,
		    provider = $7, reset_token_hash = $8, reset_token_expires_at = $9, updated_at = $10
		WHERE id = $1
	`

	user.UpdatedAt = time.Now()

	result, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.Avatar,
		user.Provider,
		user.ResetTokenHash,
		user.ResetTokenExpiresAt,
		user.UpdatedAt,
	)

	if err != nil {
		if uniqueErr := mapUniqueViolation(err, user); uniqueErr != nil {
			return uniqueErr
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", user.ID, ErrNotFound)
	}

	return nil
}

// scanUser scans a single user row
func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.Avatar,
		&user.Provider,
		&user.ResetTokenHash,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// mapUniqueViolation maps a Postgres unique_violation to the matching
// sentinel error, or returns nil when err is something else.
func mapUniqueViolation(err error, user *domain.User) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" { // unique_violation
		return nil
	}

	if pqErr.Constraint == "users_google_id_key" {
		return fmt.Errorf("google account already linked: %w", ErrDuplicateGoogleID)
	}
	return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
}
