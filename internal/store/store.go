// Package store holds the marketplace data the admin surface works over:
// users, products, orders, and their aggregations. Two backends exist, a
// seeded in-memory store for demos and tests and a pgx-backed Postgres
// store for real deployments.
package store

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound is returned when no order matches the id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound is returned when no product matches the id.
	ErrProductNotFound = errors.New("product not found")
)

// Store is the marketplace data access surface. Implementations must be
// safe for concurrent use.
type Store interface {
	// GetUserByEmail matches the stored email byte for byte.
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// GetUserByEmailFold matches the stored email ignoring case.
	GetUserByEmailFold(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	// UpdateCredentials replaces the salt and password hash wholesale.
	UpdateCredentials(ctx context.Context, id int64, salt, passwordHash string) error
	// ListUsers excludes admin accounts and strips credential fields.
	ListUsers(ctx context.Context, f UserFilter) (UserPage, error)

	ListOrders(ctx context.Context, f OrderFilter) (OrderPage, error)
	UpdateOrder(ctx context.Context, id int64, upd OrderUpdate) (Order, error)

	ListProducts(ctx context.Context, f ProductFilter) (ProductPage, error)
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (Product, error)
	DeleteProduct(ctx context.Context, id int64) (Product, error)
	ArchiveProduct(ctx context.Context, id int64) (Product, error)
	SetProductStock(ctx context.Context, id int64, quantity int) (Product, error)
	SetProductPrice(ctx context.Context, id int64, price float64) (Product, error)

	DashboardStats(ctx context.Context) (DashboardStats, error)
	Analytics(ctx context.Context) (Analytics, error)
}
