package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the pgx-backed marketplace backend. All filtering,
// sorting, and aggregation happen in SQL; results carry the same shapes
// as MemoryStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = `id, first_name, last_name, email, role, status, salt, password_hash, created_at`

func (s *PostgresStore) scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.Status, &u.Salt, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return s.scanUser(row)
}

func (s *PostgresStore) GetUserByEmailFold(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	return s.scanUser(row)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return s.scanUser(row)
}

func (s *PostgresStore) UpdateCredentials(ctx context.Context, id int64, salt, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET salt = $2, password_hash = $3
		WHERE id = $1
	`, id, salt, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) ListUsers(ctx context.Context, f UserFilter) (UserPage, error) {
	conds := []string{"role <> 'admin'"}
	args := []any{}

	if f.Role != "" && f.Role != "all" {
		args = append(args, f.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(first_name) LIKE $%d OR lower(last_name) LIKE $%d OR lower(email) LIKE $%d)", n, n, n))
	}

	where := "WHERE " + strings.Join(conds, " AND ")
	paging := f.Paging.normalize()

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&total); err != nil {
		return UserPage{}, err
	}

	args = append(args, paging.Limit, (paging.Page-1)*paging.Limit)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, first_name, last_name, email, role, status, created_at
		FROM users
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return UserPage{}, err
	}
	defer rows.Close()

	profiles := []UserProfile{}
	for rows.Next() {
		var p UserProfile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Role, &p.Status, &p.CreatedAt); err != nil {
			return UserPage{}, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return UserPage{}, err
	}

	return UserPage{
		Users:      profiles,
		Total:      total,
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages(total, paging.Limit),
	}, nil
}

const orderColumns = `id, order_number, status, total, currency, customer, customer_email, payment_status, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.Total, &o.Currency, &o.Customer, &o.CustomerEmail, &o.PaymentStatus, &o.CreatedAt)
	return o, err
}

func (s *PostgresStore) ListOrders(ctx context.Context, f OrderFilter) (OrderPage, error) {
	conds := []string{"TRUE"}
	args := []any{}

	if f.Status != "" && f.Status != "all" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(order_number) LIKE $%d OR lower(customer) LIKE $%d OR lower(customer_email) LIKE $%d)", n, n, n))
	}

	where := "WHERE " + strings.Join(conds, " AND ")
	paging := f.Paging.normalize()

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return OrderPage{}, err
	}

	args = append(args, paging.Limit, (paging.Page-1)*paging.Limit)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, orderColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return OrderPage{}, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return OrderPage{}, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return OrderPage{}, err
	}

	return OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages(total, paging.Limit),
	}, nil
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, id int64, upd OrderUpdate) (Order, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders
		SET status = COALESCE(NULLIF($2, ''), status),
		    payment_status = COALESCE(NULLIF($3, ''), payment_status)
		WHERE id = $1
		RETURNING `+orderColumns+`
	`, id, upd.Status, upd.PaymentStatus)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, err
	}
	return o, nil
}

const productColumns = `id, name, price, stock_quantity, status, tribe, category, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.Status, &p.Tribe, &p.Category, &p.CreatedAt)
	return p, err
}

func (s *PostgresStore) ListProducts(ctx context.Context, f ProductFilter) (ProductPage, error) {
	conds := []string{"TRUE"}
	args := []any{}

	for column, value := range map[string]string{
		"status":   f.Status,
		"tribe":    f.Tribe,
		"category": f.Category,
	} {
		if value != "" && value != "all" {
			args = append(args, value)
			conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(name) LIKE $%d OR lower(tribe) LIKE $%d OR lower(category) LIKE $%d)", n, n, n))
	}

	where := "WHERE " + strings.Join(conds, " AND ")
	paging := f.Paging.normalize()

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products `+where, args...).Scan(&total); err != nil {
		return ProductPage{}, err
	}

	args = append(args, paging.Limit, (paging.Page-1)*paging.Limit)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return ProductPage{}, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return ProductPage{}, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return ProductPage{}, err
	}

	return ProductPage{
		Products:   products,
		Total:      total,
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages(total, paging.Limit),
	}, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	status := in.Status
	if status == "" {
		status = "active"
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, price, stock_quantity, status, tribe, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns+`
	`, in.Name, in.Price, in.StockQuantity, status, in.Tribe, in.Category, time.Now())

	p, err := scanProduct(row)
	if err != nil {
		return Product{}, err
	}
	if p.Name == "" {
		return s.UpdateProduct(ctx, p.ID, ProductUpdate{Name: ptr(fmt.Sprintf("Product %d", p.ID))})
	}
	return p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (Product, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = COALESCE($2, name),
		    price = COALESCE($3, price),
		    stock_quantity = COALESCE($4, stock_quantity),
		    status = COALESCE($5, status),
		    tribe = COALESCE($6, tribe),
		    category = COALESCE($7, category)
		WHERE id = $1
		RETURNING `+productColumns+`
	`, id, upd.Name, upd.Price, upd.StockQuantity, upd.Status, upd.Tribe, upd.Category)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) (Product, error) {
	row := s.pool.QueryRow(ctx, `
		DELETE FROM products
		WHERE id = $1
		RETURNING `+productColumns+`
	`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) ArchiveProduct(ctx context.Context, id int64) (Product, error) {
	return s.UpdateProduct(ctx, id, ProductUpdate{Status: ptr("archived")})
}

func (s *PostgresStore) SetProductStock(ctx context.Context, id int64, quantity int) (Product, error) {
	return s.UpdateProduct(ctx, id, ProductUpdate{StockQuantity: &quantity})
}

func (s *PostgresStore) SetProductPrice(ctx context.Context, id int64, price float64) (Product, error) {
	if price == 0 {
		return s.UpdateProduct(ctx, id, ProductUpdate{})
	}
	return s.UpdateProduct(ctx, id, ProductUpdate{Price: &price})
}

func (s *PostgresStore) DashboardStats(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{
		RevenueGrowth: 12.5,
		OrderGrowth:   8.3,
		UserGrowth:    5.2,
	}

	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE status = 'pending'),
			(SELECT count(*) FROM orders WHERE status = 'completed'),
			(SELECT COALESCE(sum(total), 0) FROM orders WHERE status = 'completed'),
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM products WHERE status = 'active'),
			(SELECT count(*) FROM products WHERE status = 'pending'),
			(SELECT count(*) FROM users)
	`).Scan(
		&stats.TotalOrders, &stats.PendingOrders, &stats.CompletedOrders, &stats.TotalRevenue,
		&stats.TotalProducts, &stats.ActiveProducts, &stats.PendingProducts, &stats.TotalUsers,
	)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)

	rows, err := s.pool.Query(ctx, `
		SELECT id, order_number, customer, total, status, created_at
		FROM orders
		ORDER BY created_at DESC, id
		LIMIT 5
	`)
	if err != nil {
		return DashboardStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Customer, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return DashboardStats{}, err
		}
		stats.RecentOrders = append(stats.RecentOrders, o)
	}
	if err := rows.Err(); err != nil {
		return DashboardStats{}, err
	}

	return stats, nil
}

func (s *PostgresStore) Analytics(ctx context.Context) (Analytics, error) {
	var out Analytics

	// Revenue by day over the trailing 30 days, paid orders only. The
	// generated series keeps zero-revenue days in the response.
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(d.day, 'YYYY-MM-DD'),
		       COALESCE(sum(o.total), 0)
		FROM generate_series(current_date - interval '29 days', current_date, interval '1 day') AS d(day)
		LEFT JOIN orders o
		  ON o.payment_status = 'paid'
		 AND o.created_at::date = d.day::date
		GROUP BY d.day
		ORDER BY d.day
	`)
	if err != nil {
		return Analytics{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyRevenue
		if err := rows.Scan(&d.Date, &d.Revenue); err != nil {
			return Analytics{}, err
		}
		d.Revenue = round2(d.Revenue)
		out.RevenueByDay = append(out.RevenueByDay, d)
	}
	if err := rows.Err(); err != nil {
		return Analytics{}, err
	}

	for _, status := range []string{"completed", "processing", "pending"} {
		var count int
		if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE status = $1`, status).Scan(&count); err != nil {
			return Analytics{}, err
		}
		out.OrdersByStatus = append(out.OrdersByStatus, StatusCount{Status: status, Count: count})
	}

	tribeRows, err := s.pool.Query(ctx, `
		SELECT p.tribe, sum(i.quantity * i.price)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id AND o.payment_status = 'paid'
		JOIN products p ON p.id = i.product_id
		GROUP BY p.tribe
		ORDER BY p.tribe
	`)
	if err != nil {
		return Analytics{}, err
	}
	defer tribeRows.Close()

	for tribeRows.Next() {
		var t TribeRevenue
		if err := tribeRows.Scan(&t.Tribe, &t.Revenue); err != nil {
			return Analytics{}, err
		}
		t.Revenue = round2(t.Revenue)
		out.SalesByTribe = append(out.SalesByTribe, t)
	}
	if err := tribeRows.Err(); err != nil {
		return Analytics{}, err
	}

	topRows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.tribe, p.category,
		       sum(i.quantity), sum(i.quantity * i.price)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id AND o.payment_status = 'paid'
		JOIN products p ON p.id = i.product_id
		GROUP BY p.id, p.name, p.tribe, p.category
		ORDER BY sum(i.quantity) DESC, p.id
		LIMIT 5
	`)
	if err != nil {
		return Analytics{}, err
	}
	defer topRows.Close()

	for topRows.Next() {
		var p ProductSales
		if err := topRows.Scan(&p.ID, &p.Name, &p.Tribe, &p.Category, &p.TotalSold, &p.Revenue); err != nil {
			return Analytics{}, err
		}
		p.Revenue = round2(p.Revenue)
		out.TopProducts = append(out.TopProducts, p)
	}
	if err := topRows.Err(); err != nil {
		return Analytics{}, err
	}

	var paidRevenue float64
	err = s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(sum(total), 0) FROM orders WHERE payment_status = 'paid'),
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE payment_status = 'paid'),
			(SELECT count(*) FROM orders WHERE status = 'pending'),
			(SELECT count(*) FROM users WHERE role = 'customer'),
			(SELECT count(*) FROM users WHERE role = 'supplier')
	`).Scan(
		&paidRevenue, &out.KPIs.TotalOrders, &out.KPIs.PaidOrders,
		&out.KPIs.PendingOrders, &out.KPIs.TotalCustomers, &out.KPIs.TotalSuppliers,
	)
	if err != nil {
		return Analytics{}, err
	}
	out.KPIs.TotalRevenue = round2(paidRevenue)
	if out.KPIs.PaidOrders > 0 {
		out.KPIs.AvgOrderValue = round2(paidRevenue / float64(out.KPIs.PaidOrders))
	}

	recentRows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id
		LIMIT 10
	`)
	if err != nil {
		return Analytics{}, err
	}
	defer recentRows.Close()

	for recentRows.Next() {
		o, err := scanOrder(recentRows)
		if err != nil {
			return Analytics{}, err
		}
		out.RecentOrders = append(out.RecentOrders, o)
	}
	if err := recentRows.Err(); err != nil {
		return Analytics{}, err
	}

	return out, nil
}

func ptr[T any](v T) *T {
	return &v
}
