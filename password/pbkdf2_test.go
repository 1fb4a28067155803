package password

import (
	"strings"
	"testing"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()

	h, err := NewHasher(Config{Iterations: 10_000, SaltLength: 16, KeyLength: 64})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func TestHashDeterministicPerSalt(t *testing.T) {
	h := newTestHasher(t)

	salt, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	if len(salt) != 32 {
		t.Fatalf("expected 16-byte salt as 32 hex chars, got %d", len(salt))
	}

	first := h.Hash("admin123", salt)
	second := h.Hash("admin123", salt)
	if first != second {
		t.Fatal("expected identical digests for identical (password, salt)")
	}
	if len(first) != 128 {
		t.Fatalf("expected 64-byte digest as 128 hex chars, got %d", len(first))
	}
	if first != strings.ToLower(first) {
		t.Fatal("expected lowercase hex digest")
	}
}

func TestDistinctSaltsDistinctDigests(t *testing.T) {
	h := newTestHasher(t)

	saltA, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	saltB, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	if saltA == saltB {
		t.Fatal("expected independent salts across calls")
	}

	if h.Hash("admin123", saltA) == h.Hash("admin123", saltB) {
		t.Fatal("expected different digests under different salts")
	}
}

func TestVerify(t *testing.T) {
	h := newTestHasher(t)

	salt, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	digest := h.Hash("correct-horse", salt)

	cases := []struct {
		name     string
		password string
		salt     string
		hash     string
		want     bool
	}{
		{"match", "correct-horse", salt, digest, true},
		{"wrong password", "wrong-horse", salt, digest, false},
		{"wrong salt", "correct-horse", salt + "00", digest, false},
		{"corrupt stored hash", "correct-horse", salt, "zzzz", false},
		{"empty stored hash", "correct-horse", salt, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := h.Verify(tc.password, tc.salt, tc.hash); got != tc.want {
				t.Fatalf("Verify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewHasherRejectsWeakConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"low iterations", Config{Iterations: 1_000, SaltLength: 16, KeyLength: 64}},
		{"short salt", Config{Iterations: 10_000, SaltLength: 8, KeyLength: 64}},
		{"short key", Config{Iterations: 10_000, SaltLength: 16, KeyLength: 16}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewHasher(tc.cfg); err == nil {
				t.Fatal("expected config rejection")
			}
		})
	}
}
