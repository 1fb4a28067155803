package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps the whole marketplace in process memory behind one
// mutex. It is the demo and test backend; PostgresStore carries the same
// semantics for real deployments.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]User
	products   map[int64]Product
	orders     map[int64]Order
	orderItems []OrderItem

	now func() time.Time
}

// NewMemoryStore returns an empty store. Use SeedDemo to load the demo
// marketplace.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]User),
		products: make(map[int64]Product),
		orders:   make(map[int64]Order),
		now:      time.Now,
	}
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *MemoryStore) GetUserByEmailFold(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStore) UpdateCredentials(_ context.Context, id int64, salt, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Salt = salt
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context, f UserFilter) (UserPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []User
	for _, u := range s.users {
		// The admin account never appears in the user listing.
		if u.Role == "admin" {
			continue
		}
		if !matchesFilter(f.Role, u.Role) {
			continue
		}
		if f.Search != "" {
			term := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(u.FirstName), term) &&
				!strings.Contains(strings.ToLower(u.LastName), term) &&
				!strings.Contains(strings.ToLower(u.Email), term) {
				continue
			}
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	paging := f.Paging.normalize()
	start, end := pageBounds(len(matched), paging)

	profiles := make([]UserProfile, 0, end-start)
	for _, u := range matched[start:end] {
		profiles = append(profiles, UserProfile{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
			Status:    u.Status,
			CreatedAt: u.CreatedAt,
		})
	}

	return UserPage{
		Users:      profiles,
		Total:      len(matched),
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages(len(matched), paging.Limit),
	}, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, f OrderFilter) (OrderPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Order
	for _, o := range s.orders {
		if !matchesFilter(f.Status, o.Status) {
			continue
		}
		if f.Search != "" {
			term := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(o.OrderNumber), term) &&
				!strings.Contains(strings.ToLower(o.Customer), term) &&
				!strings.Contains(strings.ToLower(o.CustomerEmail), term) {
				continue
			}
		}
		matched = append(matched, o)
	}

	sortOrdersNewestFirst(matched)

	paging := f.Paging.normalize()
	start, end := pageBounds(len(matched), paging)

	return OrderPage{
		Orders:     append([]Order{}, matched[start:end]...),
		Total:      len(matched),
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages(len(matched), paging.Limit),
	}, nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, id int64, upd OrderUpdate) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	if upd.Status != "" {
		o.Status = upd.Status
	}
	if upd.PaymentStatus != "" {
		o.PaymentStatus = upd.PaymentStatus
	}
	s.orders[id] = o
	return o, nil
}

func (s *MemoryStore) ListProducts(_ context.Context, f ProductFilter) (ProductPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Product
	for _, p := range s.products {
		if !matchesFilter(f.Status, p.Status) ||
			!matchesFilter(f.Tribe, p.Tribe) ||
			!matchesFilter(f.Category, p.Category) {
			continue
		}
		if f.Search != "" {
			term := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(p.Name), term) &&
				!strings.Contains(strings.ToLower(p.Tribe), term) &&
				!strings.Contains(strings.ToLower(p.Category), term) {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	paging := f.Paging.normalize()
	start, end := pageBounds(len(matched), paging)

	return ProductPage{
		Products:   append([]Product{}, matched[start:end]...),
		Total:      len(matched),
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages(len(matched), paging.Limit),
	}, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, in ProductInput) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nextID int64 = 1
	for id := range s.products {
		if id >= nextID {
			nextID = id + 1
		}
	}

	p := Product{
		ID:            nextID,
		Name:          in.Name,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Status:        in.Status,
		Tribe:         in.Tribe,
		Category:      in.Category,
		CreatedAt:     s.now(),
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("Product %d", nextID)
	}
	if p.Status == "" {
		p.Status = "active"
	}

	s.products[nextID] = p
	return p, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id int64, upd ProductUpdate) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.StockQuantity != nil {
		p.StockQuantity = *upd.StockQuantity
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Tribe != nil {
		p.Tribe = *upd.Tribe
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	delete(s.products, id)
	return p, nil
}

func (s *MemoryStore) ArchiveProduct(_ context.Context, id int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	p.Status = "archived"
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) SetProductStock(_ context.Context, id int64, quantity int) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	p.StockQuantity = quantity
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) SetProductPrice(_ context.Context, id int64, price float64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	if price != 0 {
		p.Price = price
	}
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) DashboardStats(_ context.Context) (DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := DashboardStats{
		TotalUsers:    len(s.users),
		TotalProducts: len(s.products),
		TotalOrders:   len(s.orders),

		// The demo system reports fixed growth figures.
		RevenueGrowth: 12.5,
		OrderGrowth:   8.3,
		UserGrowth:    5.2,
	}

	var all []Order
	for _, o := range s.orders {
		all = append(all, o)
		switch o.Status {
		case "completed":
			stats.CompletedOrders++
			stats.TotalRevenue += o.Total
		case "pending":
			stats.PendingOrders++
		}
	}
	for _, p := range s.products {
		switch p.Status {
		case "active":
			stats.ActiveProducts++
		case "pending":
			stats.PendingProducts++
		}
	}

	sortOrdersNewestFirst(all)
	for i, o := range all {
		if i == 5 {
			break
		}
		stats.RecentOrders = append(stats.RecentOrders, OrderSummary{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Customer:    o.Customer,
			Total:       o.Total,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		})
	}

	stats.TotalRevenue = round2(stats.TotalRevenue)
	return stats, nil
}

func (s *MemoryStore) Analytics(_ context.Context) (Analytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Analytics

	// Revenue by day over the trailing 30 days, paid orders only.
	const days = 30
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")

		var revenue float64
		for _, o := range s.orders {
			if o.PaymentStatus == "paid" && o.CreatedAt.UTC().Format("2006-01-02") == key {
				revenue += o.Total
			}
		}
		out.RevenueByDay = append(out.RevenueByDay, DailyRevenue{Date: key, Revenue: round2(revenue)})
	}

	// Orders by status, in the fixed completed/processing/pending order.
	for _, status := range []string{"completed", "processing", "pending"} {
		count := 0
		for _, o := range s.orders {
			if o.Status == status {
				count++
			}
		}
		out.OrdersByStatus = append(out.OrdersByStatus, StatusCount{Status: status, Count: count})
	}

	// Sales by tribe and per-product totals, paid orders only.
	paid := make(map[int64]bool)
	for _, o := range s.orders {
		if o.PaymentStatus == "paid" {
			paid[o.ID] = true
		}
	}

	tribeRevenue := make(map[string]float64)
	productSales := make(map[int64]*ProductSales)
	for _, item := range s.orderItems {
		if !paid[item.OrderID] {
			continue
		}
		product, ok := s.products[item.ProductID]
		if !ok {
			continue
		}

		lineRevenue := float64(item.Quantity) * item.Price
		tribeRevenue[product.Tribe] += lineRevenue

		ps, ok := productSales[product.ID]
		if !ok {
			ps = &ProductSales{
				ID:       product.ID,
				Name:     product.Name,
				Tribe:    product.Tribe,
				Category: product.Category,
			}
			productSales[product.ID] = ps
		}
		ps.TotalSold += item.Quantity
		ps.Revenue += lineRevenue
	}

	for tribe, revenue := range tribeRevenue {
		out.SalesByTribe = append(out.SalesByTribe, TribeRevenue{Tribe: tribe, Revenue: round2(revenue)})
	}
	sort.Slice(out.SalesByTribe, func(i, j int) bool {
		return out.SalesByTribe[i].Tribe < out.SalesByTribe[j].Tribe
	})

	for _, ps := range productSales {
		ps.Revenue = round2(ps.Revenue)
		out.TopProducts = append(out.TopProducts, *ps)
	}
	sort.Slice(out.TopProducts, func(i, j int) bool {
		if out.TopProducts[i].TotalSold != out.TopProducts[j].TotalSold {
			return out.TopProducts[i].TotalSold > out.TopProducts[j].TotalSold
		}
		return out.TopProducts[i].ID < out.TopProducts[j].ID
	})
	if len(out.TopProducts) > 5 {
		out.TopProducts = out.TopProducts[:5]
	}

	// KPIs over paid orders.
	var paidCount, pendingCount int
	var paidRevenue float64
	var all []Order
	for _, o := range s.orders {
		all = append(all, o)
		if o.PaymentStatus == "paid" {
			paidCount++
			paidRevenue += o.Total
		}
		if o.Status == "pending" {
			pendingCount++
		}
	}

	var customers, suppliers int
	for _, u := range s.users {
		switch u.Role {
		case "customer":
			customers++
		case "supplier":
			suppliers++
		}
	}

	out.KPIs = KPISet{
		TotalRevenue:   round2(paidRevenue),
		TotalOrders:    len(s.orders),
		PaidOrders:     paidCount,
		PendingOrders:  pendingCount,
		TotalCustomers: customers,
		TotalSuppliers: suppliers,
	}
	if paidCount > 0 {
		out.KPIs.AvgOrderValue = round2(paidRevenue / float64(paidCount))
	}

	sortOrdersNewestFirst(all)
	if len(all) > 10 {
		all = all[:10]
	}
	out.RecentOrders = append([]Order{}, all...)

	return out, nil
}

func matchesFilter(filter, value string) bool {
	return filter == "" || filter == "all" || filter == value
}

func pageBounds(total int, p Paging) (int, int) {
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

func totalPages(total, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortOrdersNewestFirst(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
