package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cropsight/auth-service/internal/domain"
	"github.com/cropsight/auth-service/internal/mailer"
	"github.com/cropsight/auth-service/internal/oauth"
	"github.com/cropsight/auth-service/internal/repository"
	"github.com/google/uuid"
)

// fakeUserRepo is an in-memory UserRepository enforcing the same uniqueness
// rules as the Postgres schema.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email taken: %w", repository.ErrDuplicateEmail)
		}
		if existing.GoogleID != nil && user.GoogleID != nil && *existing.GoogleID == *user.GoogleID {
			return fmt.Errorf("google id taken: %w", repository.ErrDuplicateGoogleID)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Provider == "" {
		user.Provider = domain.ProviderLocal
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("email %s: %w", email, repository.ErrNotFound)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, fmt.Errorf("id %s: %w", id, repository.ErrNotFound)
}

func (r *fakeUserRepo) GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			r.mu.Unlock()
			return cloneUser(u), nil
		}
	}
	r.mu.Unlock()

	return r.GetByEmail(ctx, email)
}

func (r *fakeUserRepo) GetByValidResetTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("reset token: %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("id %s: %w", user.ID, repository.ErrNotFound)
	}

	user.UpdatedAt = time.Now()
	r.users[user.ID] = cloneUser(user)
	return nil
}

// stored returns the persisted record, bypassing the repository contract.
// Tests use it to inspect and tamper with state directly.
func (r *fakeUserRepo) stored(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type sentMail struct {
	to    string
	token string
}

// fakeMailer records reset emails on a channel so tests can wait for the
// asynchronous send.
type fakeMailer struct {
	sent chan sentMail
}

var _ mailer.Mailer = (*fakeMailer)(nil)

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentMail, 8)}
}

func (m *fakeMailer) SendResetEmail(_ context.Context, to, resetToken string) error {
	m.sent <- sentMail{to: to, token: resetToken}
	return nil
}

// stubVerifier returns canned userinfo claims.
type stubVerifier struct {
	info *oauth.UserInfo
	err  error
}

var _ oauth.Verifier = (*stubVerifier)(nil)

func (v *stubVerifier) UserInfo(context.Context, string) (*oauth.UserInfo, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.info, nil
}

// allowAllLimiter never rate-limits.
type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
