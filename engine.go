package adminauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nomadtreasures/adminauth/internal"
	"github.com/nomadtreasures/adminauth/password"
	"github.com/nomadtreasures/adminauth/session"
)

// Engine defines a public type used by adminauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	tokens    session.Store
	memTokens *session.MemoryStore
	resets    ResetStore
	users     UserProvider
	hasher    *password.Hasher
	mailer    Mailer
	audit     *auditDispatcher
	metrics   *Metrics

	// now is overridable so expiry behavior can be exercised without a
	// real 24-hour wait.
	now func() time.Time
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.memTokens != nil {
		e.memTokens.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, email, pass string) (LoginResult, error) {
	if e == nil || e.hasher == nil || e.users == nil {
		return LoginResult{}, ErrEngineNotReady
	}

	if email == "" || pass == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, email, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "missing_fields"}
		})
		return LoginResult{}, ErrInvalidCredentials
	}

	// Login matches the stored email byte for byte; only the reset-request
	// flow folds case.
	user, err := e.users.GetUserByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, email, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "user_not_found"}
		})
		return LoginResult{}, ErrInvalidCredentials
	}

	if !e.hasher.Verify(pass, user.Salt, user.PasswordHash) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, email, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "bad_password"}
		})
		return LoginResult{}, ErrInvalidCredentials
	}

	// Role gating happens only after the password verifies, so a
	// wrong-password non-admin still gets the generic credentials error.
	if user.Role != RoleAdmin {
		e.metricInc(MetricLoginForbidden)
		e.emitAudit(ctx, auditEventLoginForbidden, false, user.ID, email, ErrAdminRequired, nil)
		return LoginResult{}, ErrAdminRequired
	}

	value, err := internal.NewSessionToken(e.config.Session.TokenPrefix)
	if err != nil {
		return LoginResult{}, fmt.Errorf("mint session token: %w", err)
	}

	now := e.clock()
	expiresAt := now.Add(e.config.Session.TokenTTL)
	tok := session.Token{
		Value:     value,
		UserID:    user.ID,
		CreatedAt: now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := e.tokens.Save(ctx, tok); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, email, nil, nil)

	return LoginResult{
		Token:     value,
		ExpiresAt: expiresAt,
		User:      profileOf(user),
	}, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Validate(ctx context.Context, token string) (int64, error) {
	if e == nil || e.tokens == nil {
		return 0, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricValidateLatency, time.Since(start))
		}
	}()

	if token == "" {
		e.metricInc(MetricTokenRejected)
		e.emitAudit(ctx, auditEventTokenRejected, false, 0, "", ErrTokenInvalid, nil)
		return 0, ErrTokenInvalid
	}

	tok, err := e.tokens.Validate(ctx, token)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		if errors.Is(err, session.ErrTokenNotFound) {
			// Absent and expired are indistinguishable to the caller.
			e.emitAudit(ctx, auditEventTokenRejected, false, 0, "", ErrTokenInvalid, nil)
			return 0, ErrTokenInvalid
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricTokenValidated)
	return tok.UserID, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	if token == "" {
		return nil
	}

	// Revocation succeeds whether or not the token exists; logout never
	// reveals token validity.
	if err := e.tokens.Revoke(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, auditEventLogout, true, 0, "", nil, nil)

	return nil
}
