package store

import (
	"time"

	"github.com/nomadtreasures/adminauth/password"
)

// SeedDemo loads the demo marketplace: five users (one admin, two
// customers, two suppliers), five products, five orders, and the order
// items backing the analytics. Demo credentials are hashed at seed time
// with per-user salts; the admin signs in as admin@nomadtreasures.com
// with admin123, everyone else uses "password".
func SeedDemo(s *MemoryStore, hasher *password.Hasher) error {
	now := time.Now()
	day := 24 * time.Hour

	type account struct {
		user User
		pass string
	}
	accounts := []account{
		{User{ID: 1, FirstName: "Super", LastName: "Admin", Email: "admin@nomadtreasures.com", Role: "admin", Status: "active", CreatedAt: now.Add(-60 * day)}, "admin123"},
		{User{ID: 2, FirstName: "John", LastName: "Doe", Email: "john@example.com", Role: "customer", Status: "active", CreatedAt: now.Add(-25 * day)}, "password"},
		{User{ID: 3, FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Role: "customer", Status: "active", CreatedAt: now.Add(-40 * day)}, "password"},
		{User{ID: 4, FirstName: "Moses", LastName: "Otieno", Email: "moses@samburu-art.com", Role: "supplier", Status: "active", CreatedAt: now.Add(-90 * day)}, "password"},
		{User{ID: 5, FirstName: "Amina", LastName: "Hassan", Email: "amina@maasai-crafts.com", Role: "supplier", Status: "pending", CreatedAt: now.Add(-10 * day)}, "password"},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		salt, err := hasher.GenerateSalt()
		if err != nil {
			return err
		}
		a.user.Salt = salt
		a.user.PasswordHash = hasher.Hash(a.pass, salt)
		s.users[a.user.ID] = a.user
	}

	products := []Product{
		{ID: 1, Name: "Traditional Maasai Beaded Necklace", Price: 89.00, StockQuantity: 15, Status: "active", Tribe: "Maasai", Category: "Jewelry", CreatedAt: now.Add(-7 * day)},
		{ID: 2, Name: "Turkana Woven Basket", Price: 156.00, StockQuantity: 8, Status: "active", Tribe: "Turkana", Category: "Baskets", CreatedAt: now.Add(-14 * day)},
		{ID: 3, Name: "Samburu Leather Sandals", Price: 125.00, StockQuantity: 12, Status: "active", Tribe: "Samburu", Category: "Footwear", CreatedAt: now.Add(-21 * day)},
		{ID: 4, Name: "Rendile Silver Bracelet", Price: 67.00, StockQuantity: 20, Status: "active", Tribe: "Rendile", Category: "Jewelry", CreatedAt: now.Add(-28 * day)},
		{ID: 5, Name: "Borana Clay Pot", Price: 203.00, StockQuantity: 5, Status: "pending", Tribe: "Borana", Category: "Pottery", CreatedAt: now.Add(-35 * day)},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}

	orders := []Order{
		{ID: 1, OrderNumber: "ORD-001", Status: "pending", Total: 245.00, Currency: "USD", Customer: "John Doe", CustomerEmail: "john@example.com", PaymentStatus: "pending", CreatedAt: now},
		{ID: 2, OrderNumber: "ORD-002", Status: "completed", Total: 156.00, Currency: "USD", Customer: "Jane Smith", CustomerEmail: "jane@example.com", PaymentStatus: "paid", CreatedAt: now.Add(-1 * day)},
		{ID: 3, OrderNumber: "ORD-003", Status: "processing", Total: 89.00, Currency: "USD", Customer: "Mike Johnson", CustomerEmail: "mike@example.com", PaymentStatus: "paid", CreatedAt: now.Add(-2 * day)},
		{ID: 4, OrderNumber: "ORD-004", Status: "pending", Total: 312.00, Currency: "USD", Customer: "Sarah Wilson", CustomerEmail: "sarah@example.com", PaymentStatus: "pending", CreatedAt: now.Add(-3 * day)},
		{ID: 5, OrderNumber: "ORD-005", Status: "completed", Total: 178.00, Currency: "USD", Customer: "David Brown", CustomerEmail: "david@example.com", PaymentStatus: "paid", CreatedAt: now.Add(-4 * day)},
	}
	for _, o := range orders {
		s.orders[o.ID] = o
	}

	s.orderItems = []OrderItem{
		{OrderID: 2, ProductID: 2, Quantity: 1, Price: 156.00},
		{OrderID: 3, ProductID: 1, Quantity: 1, Price: 89.00},
		{OrderID: 5, ProductID: 3, Quantity: 1, Price: 125.00},
		{OrderID: 5, ProductID: 4, Quantity: 1, Price: 53.00},
	}

	return nil
}
