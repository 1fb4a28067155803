package adminauth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nomadtreasures/adminauth/internal"
)

// RequestPasswordReset mints a single-use reset token for the account whose
// email matches, ignoring case. An unknown email is not an error and leaves
// no trace: callers must answer the requester identically either way, so
// the flow never confirms whether an account exists.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil || e.users == nil || e.resets == nil {
		return ErrEngineNotReady
	}

	e.metricInc(MetricPasswordResetRequest)

	if email == "" {
		return nil
	}

	user, err := e.users.GetUserByEmailFold(ctx, email)
	if err != nil {
		// No matching account: no token, no store write, same outcome.
		e.emitAudit(ctx, auditEventPasswordResetRequest, true, 0, email, nil, func() map[string]string {
			return map[string]string{"matched": "false"}
		})
		return nil
	}

	token, err := internal.NewResetToken()
	if err != nil {
		return fmt.Errorf("mint reset token: %w", err)
	}

	rec := ResetRecord{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: e.clock().Add(e.config.PasswordReset.ResetTTL).Unix(),
	}
	if err := e.resets.Save(ctx, rec); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if e.mailer != nil {
		if err := e.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
			// Delivery failures are logged, never surfaced: surfacing would
			// reveal that the email matched an account.
			log.Printf("adminauth: password reset delivery failed for user %d: %v", user.ID, err)
			e.emitAudit(ctx, auditEventPasswordResetMailFailure, false, user.ID, user.Email, nil, nil)
		}
	}

	e.emitAudit(ctx, auditEventPasswordResetRequest, true, user.ID, user.Email, nil, func() map[string]string {
		return map[string]string{"matched": "true"}
	})

	return nil
}

// ConfirmPasswordReset redeems a reset token and installs a new credential.
// Redemption is single-use: the token is consumed on any match, so a second
// attempt with the same token fails even if the first one did.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// ConfirmPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if e == nil || e.users == nil || e.resets == nil || e.hasher == nil {
		return ErrEngineNotReady
	}

	if token == "" || newPassword == "" {
		e.metricInc(MetricPasswordResetConfirmFailure)
		return ErrResetFieldsRequired
	}

	rec, err := e.resets.Consume(ctx, token)
	if err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		switch {
		case errors.Is(err, ErrResetNotFound):
			e.emitAudit(ctx, auditEventPasswordResetReplay, false, 0, "", ErrResetInvalid, nil)
			return ErrResetInvalid
		case errors.Is(err, ErrResetExpired):
			e.emitAudit(ctx, auditEventPasswordResetConfirm, false, 0, "", ErrResetInvalid, func() map[string]string {
				return map[string]string{"reason": "expired"}
			})
			return ErrResetInvalid
		default:
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	user, err := e.users.GetUserByID(ctx, rec.UserID)
	if err != nil {
		// The token is already burned; an orphaned record cannot be replayed.
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, rec.UserID, "", ErrResetInvalid, func() map[string]string {
			return map[string]string{"reason": "user_gone"}
		})
		return ErrResetInvalid
	}

	salt, err := e.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash := e.hasher.Hash(newPassword, salt)

	if err := e.users.UpdateCredentials(ctx, user.ID, salt, hash); err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		return fmt.Errorf("update credentials: %w", err)
	}

	if e.config.PasswordReset.RevokeSessions && e.tokens != nil {
		if err := e.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
			log.Printf("adminauth: post-reset session revocation failed for user %d: %v", user.ID, err)
		} else {
			e.emitAudit(ctx, auditEventSessionsRevokedAfterReset, true, user.ID, user.Email, nil, nil)
		}
	}

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, user.ID, user.Email, nil, nil)

	return nil
}
