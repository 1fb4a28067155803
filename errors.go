package adminauth

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session engine.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAdminRequired is an exported constant or variable used by the session engine.
	ErrAdminRequired = errors.New("access denied, admin role required")
	// ErrTokenInvalid is an exported constant or variable used by the session engine.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrResetInvalid is an exported constant or variable used by the session engine.
	ErrResetInvalid = errors.New("invalid or expired reset token")
	// ErrResetFieldsRequired is an exported constant or variable used by the session engine.
	ErrResetFieldsRequired = errors.New("reset token and new password are required")
	// ErrUserNotFound is an exported constant or variable used by the session engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable is an exported constant or variable used by the session engine.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the session engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
