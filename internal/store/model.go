package store

import "time"

// User is a marketplace account. Salt and PasswordHash never leave this
// package through list projections.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Salt         string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is the credential-free projection used in listings.
type UserProfile struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog entry attributed to an artisan community.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Status        string    `json:"status"`
	Tribe         string    `json:"tribe"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

// Order is a customer purchase.
type Order struct {
	ID            int64     `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	Currency      string    `json:"currency"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customer_email"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderItem links an order line to a product for analytics.
type OrderItem struct {
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Paging carries the shared page/limit pair. Zero values fall back to
// page 1 with 10 entries.
type Paging struct {
	Page  int
	Limit int
}

func (p Paging) normalize() Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

// UserFilter narrows ListUsers. The empty or "all" values match everything.
type UserFilter struct {
	Paging
	Role   string
	Search string
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	Paging
	Status string
	Search string
}

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	Paging
	Status   string
	Tribe    string
	Category string
	Search   string
}

// UserPage is one page of credential-free user projections.
type UserPage struct {
	Users      []UserProfile `json:"users"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// OrderPage is one page of orders, newest first.
type OrderPage struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

// ProductPage is one page of products, newest first.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// OrderUpdate carries the mutable order fields. Empty strings leave the
// field untouched.
type OrderUpdate struct {
	Status        string
	PaymentStatus string
}

// ProductInput creates a product. Zero values take the original system's
// fallbacks: empty name becomes "Product <id>", empty status "active".
type ProductInput struct {
	Name          string
	Price         float64
	StockQuantity int
	Status        string
	Tribe         string
	Category      string
}

// ProductUpdate patches a product. Nil fields leave the column untouched.
type ProductUpdate struct {
	Name          *string
	Price         *float64
	StockQuantity *int
	Status        *string
	Tribe         *string
	Category      *string
}

// OrderSummary is the trimmed order used in the dashboard's recent list.
type OrderSummary struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"order_number"`
	Customer    string    `json:"customer"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardStats aggregates storewide counts for the admin landing page.
// Revenue counts completed orders only; the growth percentages are the
// fixed demo figures the original system reports.
type DashboardStats struct {
	TotalOrders     int            `json:"total_orders"`
	PendingOrders   int            `json:"pending_orders"`
	CompletedOrders int            `json:"completed_orders"`
	TotalRevenue    float64        `json:"total_revenue"`
	TotalProducts   int            `json:"total_products"`
	ActiveProducts  int            `json:"active_products"`
	PendingProducts int            `json:"pending_products"`
	TotalUsers      int            `json:"total_users"`
	RecentOrders    []OrderSummary `json:"recent_orders"`
	RevenueGrowth   float64        `json:"revenue_growth"`
	OrderGrowth     float64        `json:"order_growth"`
	UserGrowth      float64        `json:"user_growth"`
}

// KPISet is the headline analytics block. Revenue figures count paid
// orders only.
type KPISet struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalOrders    int     `json:"total_orders"`
	PaidOrders     int     `json:"paid_orders"`
	PendingOrders  int     `json:"pending_orders"`
	AvgOrderValue  float64 `json:"avg_order_value"`
	TotalCustomers int     `json:"total_customers"`
	TotalSuppliers int     `json:"total_suppliers"`
}

// DailyRevenue is one day of paid-order revenue, keyed by ISO date.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// StatusCount is the order tally for one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TribeRevenue is paid-order revenue attributed to one artisan community.
type TribeRevenue struct {
	Tribe   string  `json:"tribe"`
	Revenue float64 `json:"revenue"`
}

// ProductSales ranks a product by units sold across paid orders.
type ProductSales struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Tribe     string  `json:"tribe"`
	Category  string  `json:"category"`
	TotalSold int     `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

// Analytics is the full analytics payload.
type Analytics struct {
	KPIs           KPISet         `json:"kpis"`
	RevenueByDay   []DailyRevenue `json:"revenue_by_day"`
	OrdersByStatus []StatusCount  `json:"orders_by_status"`
	SalesByTribe   []TribeRevenue `json:"sales_by_tribe"`
	TopProducts    []ProductSales `json:"top_products"`
	RecentOrders   []Order        `json:"recent_orders"`
}
