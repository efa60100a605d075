// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrConflict is returned by repository Create operations when a uniqueness
// constraint rejects the row.
var ErrConflict = errors.New("conflict")

// User represents a registered account. UUID is the stable identity;
// PasswordHash is an opaque PHC-encoded verifier string.
type User struct {
	UUID         string
	Username     string
	PasswordHash string
}

// Session is a time-bounded grant binding an opaque bearer token to one user.
type Session struct {
	UUID     string
	UserUUID string
	Token    string
	Expiry   time.Time
}

// Expired reports whether the session's expiry has passed at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s.Expiry.Before(now)
}

// UserRepository defines the port for user persistence operations.
//
// GetByUsername returns (nil, nil) when no user carries the username.
// Create must fail with ErrConflict when the username is already taken;
// the storage-level uniqueness constraint is the authoritative backstop.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	Create(ctx context.Context, uuid, username, passwordHash string) error
}

// SessionRepository defines the port for session persistence operations.
//
// GetByToken returns (nil, nil) when no session carries the token. Refresh
// and Delete are keyed by the (uuid, userUUID) pair so a session can only be
// touched by its owner; both report whether a row matched.
type SessionRepository interface {
	Create(ctx context.Context, uuid, userUUID, token string, expiry time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Refresh(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error)
	Delete(ctx context.Context, uuid, userUUID string) (bool, error)
	DeleteByToken(ctx context.Context, token string) error
}
