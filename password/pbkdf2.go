package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	minIterations = 10_000
	minSaltLength = 16
	minKeyLength  = 32
)

// Config defines a public type used by adminauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// Hasher defines a public type used by adminauth APIs.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	config Config
}

// NewHasher describes the newhasher operation and its observable behavior.
//
// NewHasher may return an error when input validation, dependency calls, or security checks fail.
// NewHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHasher(cfg Config) (*Hasher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Hasher{config: cfg}, nil
}

// GenerateSalt returns a fresh hex-encoded salt of the configured length,
// independent across calls.
func (h *Hasher) GenerateSalt() (string, error) {
	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	return hex.EncodeToString(salt), nil
}

// Hash derives the hex-encoded PBKDF2-SHA512 digest of password under salt.
// The salt string participates byte-for-byte, so the same (password, salt)
// pair always yields the same digest.
func (h *Hasher) Hash(password, salt string) string {
	derived := pbkdf2.Key(
		[]byte(password),
		[]byte(salt),
		h.config.Iterations,
		h.config.KeyLength,
		sha512.New,
	)

	return hex.EncodeToString(derived)
}

// Verify recomputes the digest for (password, salt) and compares it against
// encodedHash in constant time. Malformed stored hashes verify as false,
// never as an error: a corrupt credential must look like a wrong password.
func (h *Hasher) Verify(password, salt, encodedHash string) bool {
	expected, err := hex.DecodeString(encodedHash)
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := pbkdf2.Key(
		[]byte(password),
		[]byte(salt),
		h.config.Iterations,
		h.config.KeyLength,
		sha512.New,
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func validateConfig(cfg Config) error {
	if cfg.Iterations < minIterations {
		return errors.New("iterations below minimum work factor")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("salt length below minimum")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("key length below minimum")
	}
	return nil
}
