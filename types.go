package adminauth

import (
	"context"
	"time"
)

// Role names recognized by the engine. Only RoleAdmin may hold a session
// token; the others exist so providers can return complete records.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleSupplier = "supplier"
)

// UserProvider is the interface that callers must implement to integrate
// adminauth with their user database. Email lookup comes in two variants
// because the observed flows disagree: login matches the stored email
// exactly, while the password-reset request folds case.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByEmailFold(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, id int64) (UserRecord, error)
	UpdateCredentials(ctx context.Context, id int64, salt, passwordHash string) error
}

// UserRecord is the full account record returned by [UserProvider].
// It carries the per-user salt and derived password hash; both are replaced
// wholesale on every password change.
type UserRecord struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Role         string
	Status       string
	Salt         string
	PasswordHash string
	CreatedAt    time.Time
}

// AdminProfile is the sanitized projection returned to callers after a
// successful login. It never carries credential fields.
type AdminProfile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// LoginResult is returned by [Engine.Login]. The token is opaque: its
// "admin_token_" prefix identifies it in logs and debuggers but encodes no
// claims.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      AdminProfile
}

// Mailer delivers password-reset tokens out of band. The engine treats
// delivery as a collaborator: a failed send is logged, never surfaced to the
// requester (that would leak which emails exist).
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

func profileOf(u UserRecord) AdminProfile {
	return AdminProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}
