package adminauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func resetRecord(token string, userID int64, ttl time.Duration) ResetRecord {
	return ResetRecord{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
}

func TestMemoryResetStoreConsume(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResetStore()

	if err := s.Save(ctx, resetRecord("tok-a", 1, 15*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec, err := s.Consume(ctx, "tok-a")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if rec.UserID != 1 {
		t.Fatalf("expected user 1, got %d", rec.UserID)
	}

	if _, err := s.Consume(ctx, "tok-a"); !errors.Is(err, ErrResetNotFound) {
		t.Fatalf("expected consumed token to be gone, got %v", err)
	}
	if _, err := s.Consume(ctx, "tok-never"); !errors.Is(err, ErrResetNotFound) {
		t.Fatalf("expected unknown token to be absent, got %v", err)
	}
}

func TestMemoryResetStoreExpiredConsumeBurnsToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResetStore()

	if err := s.Save(ctx, resetRecord("tok-b", 2, 15*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	if _, err := s.Consume(ctx, "tok-b"); !errors.Is(err, ErrResetExpired) {
		t.Fatalf("expected ErrResetExpired, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("expected expired token to be removed on consume")
	}
}

func TestMemoryResetStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResetStore()

	if err := s.Save(ctx, resetRecord("tok-c", 3, 15*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Remove(ctx, "tok-c"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Remove(ctx, "tok-c"); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if _, err := s.Consume(ctx, "tok-c"); !errors.Is(err, ErrResetNotFound) {
		t.Fatal("expected removed token to be absent")
	}
}

func newResetTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisResetStoreConsume(t *testing.T) {
	mr, rdb := newResetTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisResetStore(rdb)

	if err := s.Save(ctx, resetRecord("tok-r1", 7, 15*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec, err := s.Consume(ctx, "tok-r1")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if rec.UserID != 7 {
		t.Fatalf("expected user 7, got %d", rec.UserID)
	}

	if _, err := s.Consume(ctx, "tok-r1"); !errors.Is(err, ErrResetNotFound) {
		t.Fatalf("expected consumed token to be gone, got %v", err)
	}
}

func TestRedisResetStoreExpiry(t *testing.T) {
	mr, rdb := newResetTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisResetStore(rdb)

	if err := s.Save(ctx, resetRecord("tok-r2", 7, time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.Consume(ctx, "tok-r2"); !errors.Is(err, ErrResetNotFound) {
		t.Fatalf("expected Redis TTL to drop the record, got %v", err)
	}
}
