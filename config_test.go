package adminauth

import (
	"testing"
	"time"
)

func TestDefaultConfigMatchesObservedBehavior(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Session.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h sessions, got %v", cfg.Session.TokenTTL)
	}
	if cfg.Session.TokenPrefix != "admin_token_" {
		t.Fatalf("unexpected token prefix %q", cfg.Session.TokenPrefix)
	}
	if cfg.PasswordReset.ResetTTL != 15*time.Minute {
		t.Fatalf("expected 15m reset tokens, got %v", cfg.PasswordReset.ResetTTL)
	}
	if cfg.PasswordReset.RevokeSessions {
		t.Fatal("expected resets to preserve sessions by default")
	}
	if cfg.Password.Iterations != 10_000 || cfg.Password.SaltLength != 16 || cfg.Password.KeyLength != 64 {
		t.Fatalf("unexpected password parameters: %+v", cfg.Password)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidateRejectsWeakSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero ttl", func(c *Config) { c.Session.TokenTTL = 0 }},
		{"whitespace prefix", func(c *Config) { c.Session.TokenPrefix = "admin token " }},
		{"negative sweep", func(c *Config) { c.Session.SweepInterval = -time.Second }},
		{"zero reset ttl", func(c *Config) { c.PasswordReset.ResetTTL = 0 }},
		{"weak iterations", func(c *Config) { c.Password.Iterations = 1000 }},
		{"short salt", func(c *Config) { c.Password.SaltLength = 8 }},
		{"short key", func(c *Config) { c.Password.KeyLength = 16 }},
		{"audit without buffer", func(c *Config) { c.Audit.BufferSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}
