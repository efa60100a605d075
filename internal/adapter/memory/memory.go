// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"journal/internal/domain"
)

// DB holds all in-memory state, guarded by one mutex, and implements the
// user repository directly. Session and entry repositories are thin wrappers
// sharing the same state, mirroring the postgres adapter's shape.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions map[string]*domain.Session
	entries  []*domain.Entry
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
	_ domain.EntryRepository   = (*EntryRepo)(nil)
)

// --- UserRepository ---

// GetByUsername retrieves a user by exact username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// CountByUsername counts users carrying the username.
func (db *DB) CountByUsername(ctx context.Context, username string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	count := 0
	for _, u := range db.users {
		if u.Username == username {
			count++
		}
	}
	return count, nil
}

// Create inserts a user, enforcing username uniqueness the way the SQL
// constraint does.
func (db *DB) Create(ctx context.Context, uuid, username, passwordHash string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return domain.ErrConflict
		}
	}
	db.users = append(db.users, &domain.User{
		UUID:         uuid,
		Username:     username,
		PasswordHash: passwordHash,
	})
	return nil
}

// --- SessionRepository ---

// SessionRepo implements session operations over the shared state.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a session keyed by token.
func (r *SessionRepo) Create(ctx context.Context, uuid, userUUID, token string, expiry time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		UUID:     uuid,
		UserUUID: userUUID,
		Token:    token,
		Expiry:   expiry,
	}
	return nil
}

// GetByToken retrieves a session by bearer token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Refresh extends expiry on the (uuid, userUUID) match.
func (r *SessionRepo) Refresh(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.sessions {
		if s.UUID == uuid && s.UserUUID == userUUID {
			s.Expiry = expiry
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the (uuid, userUUID) match.
func (r *SessionRepo) Delete(ctx context.Context, uuid, userUUID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for token, s := range r.db.sessions {
		if s.UUID == uuid && s.UserUUID == userUUID {
			delete(r.db.sessions, token)
			return true, nil
		}
	}
	return false, nil
}

// DeleteByToken removes the session carrying the token.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// --- EntryRepository ---

// EntryRepo implements entry operations over the shared state.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo wraps a DB as an EntryRepository.
func NewEntryRepo(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create inserts an entry.
func (r *EntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cp := *e
	cp.Created = cp.Created.UTC()
	r.db.entries = append(r.db.entries, &cp)
	return nil
}

// GetByUUID retrieves the entry matching both UUID and owner.
func (r *EntryRepo) GetByUUID(ctx context.Context, uuid, userUUID string) (*domain.Entry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.entries {
		if e.UUID == uuid && e.UserUUID == userUUID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// Update replaces title and body on the owned entry.
func (r *EntryRepo) Update(ctx context.Context, uuid, userUUID, title, body string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.entries {
		if e.UUID == uuid && e.UserUUID == userUUID {
			e.Title = title
			e.Body = body
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the owned entry.
func (r *EntryRepo) Delete(ctx context.Context, uuid, userUUID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, e := range r.db.entries {
		if e.UUID == uuid && e.UserUUID == userUUID {
			r.db.entries = append(r.db.entries[:i], r.db.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListUUIDs returns the user's entry UUIDs, most recent first.
func (r *EntryRepo) ListUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	own := make([]*domain.Entry, 0)
	for _, e := range r.db.entries {
		if e.UserUUID == userUUID {
			own = append(own, e)
		}
	}
	sort.Slice(own, func(i, j int) bool {
		return own[i].Created.After(own[j].Created)
	})

	out := make([]string, 0, len(own))
	for _, e := range own {
		out = append(out, e.UUID)
	}
	return out, nil
}
