package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb)

	if err := s.Save(ctx, memToken("admin_token_r1", 7, time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tok, err := s.Validate(ctx, "admin_token_r1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if tok.UserID != 7 {
		t.Fatalf("expected user 7, got %d", tok.UserID)
	}

	if _, err := s.Validate(ctx, "admin_token_unknown"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb)

	if err := s.Save(ctx, memToken("admin_token_r2", 7, time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.Validate(ctx, "admin_token_r2"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
}

func TestRedisStoreRevoke(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb)

	if err := s.Save(ctx, memToken("admin_token_r3", 9, time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Revoke(ctx, "admin_token_r3"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := s.Validate(ctx, "admin_token_r3"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatal("expected revoked token to be invalid")
	}
	if err := s.Revoke(ctx, "admin_token_r3"); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
}

func TestRedisStoreRevokeAllForUser(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb)

	for _, tok := range []Token{
		memToken("admin_token_ra", 4, time.Hour),
		memToken("admin_token_rb", 4, time.Hour),
		memToken("admin_token_rc", 5, time.Hour),
	} {
		if err := s.Save(ctx, tok); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := s.RevokeAllForUser(ctx, 4); err != nil {
		t.Fatalf("RevokeAllForUser failed: %v", err)
	}

	if _, err := s.Validate(ctx, "admin_token_ra"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatal("expected user 4 token to be revoked")
	}
	if _, err := s.Validate(ctx, "admin_token_rc"); err != nil {
		t.Fatalf("expected user 5 token to survive, got %v", err)
	}
}

func TestRedisStoreCorruptRecordTreatedAsAbsent(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb)

	mr.Set("at:admin_token_bad", "not-a-record")

	if _, err := s.Validate(ctx, "admin_token_bad"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected corrupt record to read as absent, got %v", err)
	}
	if mr.Exists("at:admin_token_bad") {
		t.Fatal("expected corrupt record to be removed on touch")
	}
}
