package adminauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess              = "login_success"
	auditEventLoginFailure              = "login_failure"
	auditEventLoginForbidden            = "login_forbidden"
	auditEventTokenRejected             = "token_rejected"
	auditEventLogout                    = "logout"
	auditEventPasswordResetRequest      = "password_reset_request"
	auditEventPasswordResetConfirm      = "password_reset_confirm"
	auditEventPasswordResetReplay       = "password_reset_replay"
	auditEventPasswordResetMailFailure  = "password_reset_mail_failure"
	auditEventSessionsRevokedAfterReset = "sessions_revoked_after_reset"
)

// AuditErrorCode defines a public type used by adminauth APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrAdminRequired      AuditErrorCode = "admin_required"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrInvalidResetToken  AuditErrorCode = "invalid_reset_token"
	auditErrFieldsRequired     AuditErrorCode = "fields_required"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID int64,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrAdminRequired):
		return auditErrAdminRequired
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrResetInvalid),
		errors.Is(err, ErrResetNotFound),
		errors.Is(err, ErrResetExpired):
		return auditErrInvalidResetToken
	case errors.Is(err, ErrResetFieldsRequired):
		return auditErrFieldsRequired
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
