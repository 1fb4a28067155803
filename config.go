package adminauth

import (
	"errors"
	"strings"
	"time"
)

// SessionConfig controls bearer-token issuance and expiry.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// TokenTTL is the absolute session lifetime. Expiry is passive: it is
	// checked on validation, and expired entries are evicted on touch.
	TokenTTL time.Duration

	// TokenPrefix identifies session tokens in logs and debuggers. It is
	// cosmetic; clients must not parse it.
	TokenPrefix string

	// SweepInterval, when positive, starts a background sweep that removes
	// expired entries from memory-backed stores. Zero keeps the observed
	// lazy-only behavior: abandoned entries accumulate until touched.
	SweepInterval time.Duration
}

// PasswordResetConfig controls the single-use reset-token lifecycle.
//
// PasswordResetConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordResetConfig struct {
	// ResetTTL bounds how long a reset token may be redeemed.
	ResetTTL time.Duration

	// RevokeSessions, when true, revokes all of the user's session tokens
	// after a successful reset. Off by default: the observed system leaves
	// existing sessions valid after a password reset.
	RevokeSessions bool
}

// PasswordConfig holds the PBKDF2 work parameters passed through to the
// password hasher.
type PasswordConfig struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// AuditConfig controls the asynchronous audit pipeline.
type AuditConfig struct {
	Enabled    bool
	BufferSize int

	// DropIfFull sheds audit events instead of blocking Engine calls when
	// the sink cannot keep up. Dropped counts are observable via
	// [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls the in-process counter registry.
type MetricsConfig struct {
	Enabled bool

	// EnableLatencyHistograms additionally buckets token-validation latency.
	EnableLatencyHistograms bool
}

// Config defines a public type used by adminauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session       SessionConfig
	PasswordReset PasswordResetConfig
	Password      PasswordConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

// DefaultConfig returns the configuration matching the observed production
// behavior: 24-hour sessions, 15-minute reset tokens, PBKDF2-SHA512 with
// 10,000 iterations over a 16-byte salt, and no background sweep.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TokenTTL:    24 * time.Hour,
			TokenPrefix: "admin_token_",
		},
		PasswordReset: PasswordResetConfig{
			ResetTTL: 15 * time.Minute,
		},
		Password: PasswordConfig{
			Iterations: 10_000,
			SaltLength: 16,
			KeyLength:  64,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Session.TokenTTL <= 0 {
		return errors.New("Session.TokenTTL must be positive")
	}
	if strings.ContainsAny(c.Session.TokenPrefix, " \t\r\n") {
		return errors.New("Session.TokenPrefix must not contain whitespace")
	}
	if c.Session.SweepInterval < 0 {
		return errors.New("Session.SweepInterval must not be negative")
	}
	if c.PasswordReset.ResetTTL <= 0 {
		return errors.New("PasswordReset.ResetTTL must be positive")
	}
	if c.Password.Iterations < 10_000 {
		return errors.New("Password.Iterations must be at least 10000")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password.SaltLength must be at least 16 bytes")
	}
	if c.Password.KeyLength < 32 {
		return errors.New("Password.KeyLength must be at least 32 bytes")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}
