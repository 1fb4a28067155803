package adminauth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrResetNotFound is an exported constant or variable used by the session engine.
	ErrResetNotFound = errors.New("reset record not found")
	// ErrResetExpired is an exported constant or variable used by the session engine.
	ErrResetExpired = errors.New("reset record expired")
)

// ResetRecord is a single-use, short-lived capability to set a new password.
type ResetRecord struct {
	Token     string
	UserID    int64
	ExpiresAt int64
}

// ResetStore persists outstanding password-reset tokens. Consume is the
// only read path and it is destructive: any matched lookup, expired or not,
// removes the record, so a token can be redeemed at most once.
type ResetStore interface {
	Save(ctx context.Context, rec ResetRecord) error

	// Consume removes and returns the record for token. Absent tokens give
	// ErrResetNotFound; matched-but-expired tokens are removed and give
	// ErrResetExpired. Callers must present both failures identically.
	Consume(ctx context.Context, token string) (ResetRecord, error)

	// Remove deletes the record if present. Used to burn a token whose
	// owning user no longer resolves.
	Remove(ctx context.Context, token string) error
}

// MemoryResetStore is the process-lifetime reset-token list. Abandoned
// tokens accumulate until consumed; there is no background sweep, matching
// the observed system.
//
// MemoryResetStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryResetStore struct {
	mu      sync.Mutex
	entries map[string]ResetRecord

	now func() time.Time
}

// NewMemoryResetStore describes the newmemoryresetstore operation and its observable behavior.
//
// NewMemoryResetStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryResetStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryResetStore() *MemoryResetStore {
	return &MemoryResetStore{
		entries: make(map[string]ResetRecord),
		now:     time.Now,
	}
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryResetStore) Save(_ context.Context, rec ResetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[rec.Token] = rec
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryResetStore) Consume(_ context.Context, token string) (ResetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[token]
	if !ok {
		return ResetRecord{}, ErrResetNotFound
	}

	// Single-use: the record is gone after this lookup no matter what.
	delete(s.entries, token)

	if s.now().Unix() > rec.ExpiresAt {
		return ResetRecord{}, ErrResetExpired
	}
	return rec, nil
}

// Remove describes the remove operation and its observable behavior.
//
// Remove may return an error when input validation, dependency calls, or security checks fail.
// Remove does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryResetStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, token)
	return nil
}

// Len reports the number of outstanding reset records.
func (s *MemoryResetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
