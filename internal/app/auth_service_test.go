package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"journal/internal/domain"
)

type mockUserRepo struct {
	getByUsernameFn   func(ctx context.Context, username string) (*domain.User, error)
	countByUsernameFn func(ctx context.Context, username string) (int, error)
	createFn          func(ctx context.Context, uuid, username, passwordHash string) error
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) CountByUsername(ctx context.Context, username string) (int, error) {
	if m.countByUsernameFn != nil {
		return m.countByUsernameFn(ctx, username)
	}
	return 0, nil
}

func (m *mockUserRepo) Create(ctx context.Context, uuid, username, passwordHash string) error {
	if m.createFn != nil {
		return m.createFn(ctx, uuid, username, passwordHash)
	}
	return nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, uuid, userUUID, token string, expiry time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	refreshFn       func(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error)
	deleteFn        func(ctx context.Context, uuid, userUUID string) (bool, error)
	deleteByTokenFn func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, uuid, userUUID, token string, expiry time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, uuid, userUUID, token, expiry)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Refresh(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, uuid, userUUID, expiry)
	}
	return true, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, uuid, userUUID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, uuid, userUUID)
	}
	return true, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()

	var gotHash string
	users := &mockUserRepo{
		createFn: func(ctx context.Context, uuid, username, passwordHash string) error {
			if username != "alice" {
				t.Errorf("expected username alice, got %s", username)
			}
			gotHash = passwordHash
			return nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{})
	user, err := svc.Register(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.UUID == "" {
		t.Error("expected a generated uuid")
	}
	if gotHash == "" || gotHash == "secret123" {
		t.Error("password must be persisted as a hash, never plaintext")
	}
	if !strings.HasPrefix(gotHash, "$argon2id$") {
		t.Errorf("expected argon2id hash, got %q", gotHash)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{})
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "a", "secret123"},
		{"username too long", strings.Repeat("x", 65), "secret123"},
		{"password too short", "alice", "12345"},
		{"password too long", "alice", strings.Repeat("x", 65)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.password)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_ConflictFromPrecheck(t *testing.T) {
	users := &mockUserRepo{
		countByUsernameFn: func(ctx context.Context, username string) (int, error) {
			return 1, nil
		},
		createFn: func(ctx context.Context, uuid, username, passwordHash string) error {
			t.Error("create must not be reached when the pre-check finds a duplicate")
			return nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "alice", "secret123")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_ConflictFromConstraint(t *testing.T) {
	// The pre-check races: it sees no duplicate, but the insert hits the
	// uniqueness constraint. Callers must see the same error either way.
	users := &mockUserRepo{
		createFn: func(ctx context.Context, uuid, username, passwordHash string) error {
			return domain.ErrConflict
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "alice", "secret123")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{UUID: "user-1", Username: "testuser", PasswordHash: hash}, nil
		},
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var created *domain.Session
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, uuid, userUUID, token string, expiry time.Time) error {
			created = &domain.Session{UUID: uuid, UserUUID: userUUID, Token: token, Expiry: expiry}
			return nil
		},
	}

	svc := NewAuthService(users, sessions)
	svc.now = func() time.Time { return now }

	session, err := svc.Login(ctx, "testuser", password)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil {
		t.Fatal("expected a session row to be created")
	}
	if session.UserUUID != "user-1" {
		t.Errorf("session bound to %s, want user-1", session.UserUUID)
	}
	if len(session.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(session.Token))
	}
	for _, c := range session.Token {
		if !strings.ContainsRune(tokenAlphabet, c) {
			t.Fatalf("token contains non-alphanumeric %q", c)
		}
	}
	if !session.Expiry.Equal(now.Add(SessionTTL)) {
		t.Errorf("expiry = %v, want %v", session.Expiry, now.Add(SessionTTL))
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, _ := HashPassword("correct-password")
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{UUID: "user-1", PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), "testuser", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), "ghost", "whatever123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_CorruptHash(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{UUID: "user-1", PasswordHash: "not-a-phc-string"}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), "testuser", "whatever123")
	if !errors.Is(err, ErrHashInvalid) {
		t.Fatalf("expected ErrHashInvalid, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("corrupt hash must not be reported as wrong credentials")
	}
}

func TestAuthService_Resolve_Success(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{UUID: "sess-1", UserUUID: "user-1", Token: token, Expiry: now.Add(time.Minute)}, nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)
	svc.now = func() time.Time { return now }

	sess, err := svc.Resolve(context.Background(), "token-value")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sess.UserUUID != "user-1" {
		t.Errorf("resolved user %s, want user-1", sess.UserUUID)
	}
}

func TestAuthService_Resolve_UnknownToken(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{})

	_, err := svc.Resolve(context.Background(), "no-such-token")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_Resolve_ExpiredIsLazilyDeleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{UUID: "sess-1", UserUUID: "user-1", Token: token, Expiry: now.Add(-time.Second)}, nil
		},
		deleteByTokenFn: func(ctx context.Context, token string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)
	svc.now = func() time.Time { return now }

	_, err := svc.Resolve(context.Background(), "stale-token")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if !deleted {
		t.Error("expired session should be deleted on resolve")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotExpiry time.Time
	sessions := &mockSessionRepo{
		refreshFn: func(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error) {
			if uuid != "sess-1" || userUUID != "user-1" {
				t.Errorf("refresh keyed by (%s, %s), want (sess-1, user-1)", uuid, userUUID)
			}
			gotExpiry = expiry
			return true, nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)
	svc.now = func() time.Time { return now }

	if err := svc.Refresh(context.Background(), "sess-1", "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !gotExpiry.Equal(now.Add(SessionTTL)) {
		t.Errorf("new expiry = %v, want %v", gotExpiry, now.Add(SessionTTL))
	}
}

func TestAuthService_Refresh_NoMatch(t *testing.T) {
	sessions := &mockSessionRepo{
		refreshFn: func(ctx context.Context, uuid, userUUID string, expiry time.Time) (bool, error) {
			return false, nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	err := svc.Refresh(context.Background(), "sess-1", "someone-else")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_Revoke_Twice(t *testing.T) {
	calls := 0
	sessions := &mockSessionRepo{
		deleteFn: func(ctx context.Context, uuid, userUUID string) (bool, error) {
			calls++
			return calls == 1, nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	if err := svc.Revoke(context.Background(), "sess-1", "user-1"); err != nil {
		t.Fatalf("first revoke: expected no error, got %v", err)
	}
	err := svc.Revoke(context.Background(), "sess-1", "user-1")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second revoke: expected ErrSessionNotFound, got %v", err)
	}
}
