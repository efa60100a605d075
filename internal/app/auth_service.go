// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"journal/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password
	// was incorrect. Unknown user and wrong password share it so a caller
	// cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the bearer token or session UUID did
	// not resolve to a live session. Expired, revoked and never-existed
	// sessions all produce it.
	ErrSessionNotFound = errors.New("session cannot be verified")
	// ErrUsernameTaken indicates that registration hit an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrValidation wraps all input validation failures rejected before any
	// store access.
	ErrValidation = errors.New("invalid input")
)

// SessionTTL is how long a session lives after creation or refresh.
const SessionTTL = 30 * time.Minute

const (
	minUsernameLen = 2
	maxUsernameLen = 64
	minPasswordLen = 6
	maxPasswordLen = 64
)

// AuthService handles registration, login and the session lifecycle.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	now      func() time.Time
}

// NewAuthService creates an authentication service backed by the given
// repositories.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// Register creates a new user. Lengths are checked in bytes, matching the
// VARCHAR limits in the schema. The count pre-check is an optimization only;
// the storage uniqueness constraint is the authoritative backstop, and both
// failure paths surface as ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, fmt.Errorf("%w: username must be %d-%d bytes", ErrValidation, minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return nil, fmt.Errorf("%w: password must be %d-%d bytes", ErrValidation, minPasswordLen, maxPasswordLen)
	}

	count, err := s.users.CountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if count != 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UUID:         uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user.UUID, user.Username, user.PasswordHash); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and mints a new session with a fresh
// opaque token, expiring SessionTTL from now.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrHashInvalid) {
			// Corrupted verifier data is an internal fault, not a failed
			// login, but it must not leak past the boundary.
			log.Printf("auth: stored hash for user %s is unreadable", user.UUID)
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UUID:     uuid.NewString(),
		UserUUID: user.UUID,
		Token:    token,
		Expiry:   s.now().Add(SessionTTL),
	}
	if err := s.sessions.Create(ctx, session.UUID, session.UserUUID, session.Token, session.Expiry); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve maps a bearer token to its live session. An expired session is
// lazily deleted so that a later Resolve of the same token is observably
// identical to a revoked or never-issued one.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Expired(s.now()) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			log.Printf("auth: deleting expired session %s: %v", session.UUID, err)
		}
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Refresh extends the session's expiry to SessionTTL from now. The update is
// keyed by the (session, user) pair, so refreshing a session that is not
// yours matches zero rows and reports ErrSessionNotFound.
func (s *AuthService) Refresh(ctx context.Context, sessionUUID, userUUID string) error {
	matched, err := s.sessions.Refresh(ctx, sessionUUID, userUUID, s.now().Add(SessionTTL))
	if err != nil {
		return err
	}
	if !matched {
		return ErrSessionNotFound
	}
	return nil
}

// Revoke deletes the session. A session that does not exist and one owned by
// someone else produce the same ErrSessionNotFound, preventing session
// enumeration.
func (s *AuthService) Revoke(ctx context.Context, sessionUUID, userUUID string) error {
	matched, err := s.sessions.Delete(ctx, sessionUUID, userUUID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrSessionNotFound
	}
	return nil
}
