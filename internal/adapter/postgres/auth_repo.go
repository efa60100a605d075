package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"journal/internal/domain"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// GetByUsername retrieves a user by username. Comparison is byte-exact:
// usernames are case-sensitive.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"SELECT uuid, username, password_hash FROM users WHERE username = $1",
		username,
	).Scan(&u.UUID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountByUsername returns the number of users carrying the username.
func (d *DB) CountByUsername(ctx context.Context, username string) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = $1", username,
	).Scan(&count)
	return count, err
}

// Create inserts a new user. The unique constraint on username is the
// authoritative duplicate check; violations surface as domain.ErrConflict.
func (d *DB) Create(ctx context.Context, uuid, username, passwordHash string) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (uuid, username, password_hash) VALUES ($1, $2, $3)",
		uuid, username, passwordHash,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session row.
func (r *SessionRepo) Create(ctx context.Context, uuid, userUUID, token string, expiry time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (uuid, user_uuid, expiry, token) VALUES ($1, $2, $3, $4)",
		uuid, userUUID, expiry, token,
	)
	return err
}

// GetByToken retrieves a session by its bearer token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT uuid, user_uuid, expiry, token FROM sessions WHERE token = $1",
		token,
	).Scan(&s.UUID, &s.UserUUID, &s.Expiry, &s.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Refresh extends the expiry of the session matching (uuid, userUUID) and
// reports whether a row matched.
func (r *SessionRepo) Refresh(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"UPDATE sessions SET expiry = $1 WHERE uuid = $2 AND user_uuid = $3",
		expiry, uuid, userUUID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the session matching (uuid, userUUID) and reports whether a
// row matched.
func (r *SessionRepo) Delete(ctx context.Context, uuid, userUUID string) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM sessions WHERE uuid = $1 AND user_uuid = $2",
		uuid, userUUID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteByToken removes the session carrying the token. Used for lazy expiry
// cleanup on resolve.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}
