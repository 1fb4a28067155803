package store

import (
	"context"

	adminauth "github.com/nomadtreasures/adminauth"
)

// UserProvider adapts a Store to the engine's user lookup interface.
type UserProvider struct {
	store Store
}

func NewUserProvider(s Store) *UserProvider {
	return &UserProvider{store: s}
}

func (p *UserProvider) GetUserByEmail(ctx context.Context, email string) (adminauth.UserRecord, error) {
	u, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		return adminauth.UserRecord{}, err
	}
	return recordOf(u), nil
}

func (p *UserProvider) GetUserByEmailFold(ctx context.Context, email string) (adminauth.UserRecord, error) {
	u, err := p.store.GetUserByEmailFold(ctx, email)
	if err != nil {
		return adminauth.UserRecord{}, err
	}
	return recordOf(u), nil
}

func (p *UserProvider) GetUserByID(ctx context.Context, id int64) (adminauth.UserRecord, error) {
	u, err := p.store.GetUserByID(ctx, id)
	if err != nil {
		return adminauth.UserRecord{}, err
	}
	return recordOf(u), nil
}

func (p *UserProvider) UpdateCredentials(ctx context.Context, id int64, salt, passwordHash string) error {
	return p.store.UpdateCredentials(ctx, id, salt, passwordHash)
}

func recordOf(u User) adminauth.UserRecord {
	return adminauth.UserRecord{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         u.Role,
		Status:       u.Status,
		Salt:         u.Salt,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}
