package adminauth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nomadtreasures/adminauth/password"
)

type memProvider struct {
	mu    sync.Mutex
	users map[int64]UserRecord
}

func newMemProvider() *memProvider {
	return &memProvider{users: make(map[int64]UserRecord)}
}

func (p *memProvider) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, u := range p.users {
		if u.Email == email {
			return u, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (p *memProvider) GetUserByEmailFold(_ context.Context, email string) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, u := range p.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (p *memProvider) GetUserByID(_ context.Context, id int64) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[id]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (p *memProvider) UpdateCredentials(_ context.Context, id int64, salt, passwordHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Salt = salt
	u.PasswordHash = passwordHash
	p.users[id] = u
	return nil
}

func (p *memProvider) remove(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.users, id)
}

func testHasher(t *testing.T) *password.Hasher {
	t.Helper()

	h, err := password.NewHasher(password.Config{
		Iterations: 10_000,
		SaltLength: 16,
		KeyLength:  64,
	})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func seedUser(t *testing.T, p *memProvider, h *password.Hasher, id int64, email, role, pass string) {
	t.Helper()

	salt, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[id] = UserRecord{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Role:         role,
		Status:       "active",
		Salt:         salt,
		PasswordHash: h.Hash(pass, salt),
		CreatedAt:    time.Now(),
	}
}

func newTestEngine(t *testing.T, opts ...func(*Builder)) (*Engine, *memProvider) {
	t.Helper()

	h := testHasher(t)
	p := newMemProvider()
	seedUser(t, p, h, 1, "admin@nomadtreasures.com", RoleAdmin, "admin123")
	seedUser(t, p, h, 2, "sarah.johnson@email.com", RoleCustomer, "password123")

	b := New().WithUserProvider(p)
	for _, opt := range opts {
		opt(b)
	}

	e, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(e.Close)

	return e, p
}

func TestLoginIssuesOpaqueToken(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	res, err := e.Login(ctx, "admin@nomadtreasures.com", "admin123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if !strings.HasPrefix(res.Token, "admin_token_") {
		t.Fatalf("expected admin_token_ prefix, got %q", res.Token)
	}
	if len(res.Token) != len("admin_token_")+32 {
		t.Fatalf("expected 32 hex chars after prefix, got %q", res.Token)
	}
	if res.User.ID != 1 || res.User.Role != RoleAdmin {
		t.Fatalf("unexpected profile: %+v", res.User)
	}

	userID, err := e.Validate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if userID != 1 {
		t.Fatalf("expected user 1, got %d", userID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, unknownErr := e.Login(ctx, "nobody@nomadtreasures.com", "admin123")
	_, badPassErr := e.Login(ctx, "admin@nomadtreasures.com", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(badPassErr, ErrInvalidCredentials) {
		t.Fatalf("bad password: expected ErrInvalidCredentials, got %v", badPassErr)
	}
	if unknownErr.Error() != badPassErr.Error() {
		t.Fatalf("failure causes leak through error text: %q vs %q", unknownErr, badPassErr)
	}
}

func TestLoginNonAdminIsForbidden(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	// Valid credentials, wrong role: the distinct forbidden error.
	if _, err := e.Login(ctx, "sarah.johnson@email.com", "password123"); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}

	// Wrong password on a non-admin account stays generic; the role is not
	// revealed before the password verifies.
	if _, err := e.Login(ctx, "sarah.johnson@email.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginEmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	if _, err := e.Login(ctx, "Admin@NomadTreasures.com", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected case-mismatched email to fail login, got %v", err)
	}
}

func TestLoginMissingFields(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	if _, err := e.Login(ctx, "", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := e.Login(ctx, "admin@nomadtreasures.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	// Mint the token in the past so its 24-hour window has already closed.
	e.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	res, err := e.Login(ctx, "admin@nomadtreasures.com", "admin123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	e.now = nil

	if _, err := e.Validate(ctx, res.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
	if e.memTokens.Len() != 0 {
		t.Fatal("expected expired token to be evicted on touch")
	}
}

func TestValidateUnknownToken(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	if _, err := e.Validate(ctx, "admin_token_deadbeef"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := e.Validate(ctx, ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	res, err := e.Login(ctx, "admin@nomadtreasures.com", "admin123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := e.Logout(ctx, res.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := e.Validate(ctx, res.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatal("expected revoked token to be invalid")
	}

	if err := e.Logout(ctx, res.Token); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
	if err := e.Logout(ctx, "admin_token_never_issued"); err != nil {
		t.Fatalf("Logout of unknown token failed: %v", err)
	}
	if err := e.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout of empty token failed: %v", err)
	}
}

func TestConcurrentSessionsStayIndependent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	first, err := e.Login(ctx, "admin@nomadtreasures.com", "admin123")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	second, err := e.Login(ctx, "admin@nomadtreasures.com", "admin123")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if first.Token == second.Token {
		t.Fatal("expected distinct tokens per login")
	}

	if err := e.Logout(ctx, first.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := e.Validate(ctx, second.Token); err != nil {
		t.Fatalf("expected surviving session to stay valid, got %v", err)
	}
}

func TestLoginMetrics(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, _ = e.Login(ctx, "admin@nomadtreasures.com", "admin123")
	_, _ = e.Login(ctx, "admin@nomadtreasures.com", "wrong")
	_, _ = e.Login(ctx, "sarah.johnson@email.com", "password123")

	snap := e.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("expected 1 login success, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("expected 1 login failure, got %d", snap.Counters[MetricLoginFailure])
	}
	if snap.Counters[MetricLoginForbidden] != 1 {
		t.Fatalf("expected 1 forbidden login, got %d", snap.Counters[MetricLoginForbidden])
	}
}

func TestLoginAuditTrail(t *testing.T) {
	ctx := context.Background()
	sink := NewChannelSink(16)
	e, _ := newTestEngine(t, func(b *Builder) {
		b.WithAuditSink(sink)
	})

	if _, err := e.Login(ctx, "admin@nomadtreasures.com", "admin123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	e.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != "login_success" {
			t.Fatalf("expected login_success event, got %q", event.EventType)
		}
		if event.UserID != 1 || !event.Success {
			t.Fatalf("unexpected event payload: %+v", event)
		}
		if event.EventID == "" {
			t.Fatal("expected a populated event id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

func TestValidateRejectionIsAudited(t *testing.T) {
	ctx := context.Background()
	sink := NewChannelSink(16)
	e, _ := newTestEngine(t, func(b *Builder) {
		b.WithAuditSink(sink)
	})

	if _, err := e.Validate(ctx, "admin_token_deadbeef"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	e.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != "token_rejected" {
			t.Fatalf("expected token_rejected event, got %q", event.EventType)
		}
		if event.Success {
			t.Fatal("rejection event must not report success")
		}
		if event.Error != string(auditErrInvalidToken) {
			t.Fatalf("expected invalid_token error code, got %q", event.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

func TestBuilderRequiresUserProvider(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected Build to fail without a user provider")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithUserProvider(newMemProvider())

	e, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer e.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}
