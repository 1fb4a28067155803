package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the process-lifetime token map. All mutation happens under
// a single mutex; the map is never exposed.
//
// MemoryStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Token

	now func() time.Time

	sweepOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Token),
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Save(_ context.Context, tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[tok.Value] = tok
	return nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Validate(_ context.Context, value string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.entries[value]
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	if s.now().Unix() > tok.ExpiresAt {
		delete(s.entries, value)
		return Token{}, ErrTokenNotFound
	}

	return tok, nil
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
// Revoke does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Revoke(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, value)
	return nil
}

// RevokeAllForUser describes the revokeallforuser operation and its observable behavior.
//
// RevokeAllForUser may return an error when input validation, dependency calls, or security checks fail.
// RevokeAllForUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) RevokeAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, tok := range s.entries {
		if tok.UserID == userID {
			delete(s.entries, value)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Sweep removes every expired entry and reports how many it evicted.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	evicted := 0
	for value, tok := range s.entries {
		if now > tok.ExpiresAt {
			delete(s.entries, value)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep on the given interval until Close. Without it the
// store keeps the observed lazy-only behavior and abandoned entries
// accumulate until touched.
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.sweepOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					s.Sweep()
				case <-s.done:
					return
				}
			}
		}()
	})
}

// Close stops the sweeper, if one was started.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
