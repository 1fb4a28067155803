package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nomadtreasures/adminauth/internal/store"
)

type dataEnvelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env dataEnvelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode failed: %v\nbody: %s", err, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("response not successful: %s", rec.Body.String())
	}
	return env.Data
}

func newAdminClient(t *testing.T) (http.Handler, map[string]string) {
	t.Helper()

	h, _ := newTestHandler(t, testConfig())
	routes := h.Routes()
	token := loginToken(t, routes)
	return routes, map[string]string{"Authorization": "Bearer " + token}
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	routes := h.Routes()

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodGet, "/api/admin/analytics"},
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodGet, "/api/admin/products"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPost, "/api/admin/orders/1"},
		{http.MethodPost, "/api/admin/products"},
	}
	for _, p := range paths {
		rec := doJSON(t, routes, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s returned %d without a token, want 401", p.method, p.path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s %s: 401 content type = %q, want application/json", p.method, p.path, ct)
		}
		env := decodeEnvelope(t, rec)
		if env.Success || env.Error != "Invalid or expired token" {
			t.Fatalf("%s %s: unexpected 401 body %+v", p.method, p.path, env)
		}
	}
}

func TestDashboardEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	rec := doJSON(t, routes, http.MethodGet, "/api/admin/dashboard", "", auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d", rec.Code)
	}

	stats := decodeData[store.DashboardStats](t, rec)
	if stats.TotalOrders != 5 || stats.CompletedOrders != 2 {
		t.Fatalf("order counts = %d/%d, want 5/2", stats.TotalOrders, stats.CompletedOrders)
	}
	if stats.TotalRevenue != 334.00 {
		t.Fatalf("total revenue = %v, want 334", stats.TotalRevenue)
	}
	if len(stats.RecentOrders) != 5 || stats.RecentOrders[0].OrderNumber != "ORD-001" {
		t.Fatalf("unexpected recent orders %+v", stats.RecentOrders)
	}
	if stats.RevenueGrowth != 12.5 {
		t.Fatalf("revenue growth = %v, want 12.5", stats.RevenueGrowth)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	rec := doJSON(t, routes, http.MethodGet, "/api/admin/analytics", "", auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics returned %d", rec.Code)
	}

	analytics := decodeData[store.Analytics](t, rec)
	if analytics.KPIs.TotalRevenue != 423.00 {
		t.Fatalf("paid revenue = %v, want 423", analytics.KPIs.TotalRevenue)
	}
	if analytics.KPIs.PaidOrders != 3 || analytics.KPIs.AvgOrderValue != 141.00 {
		t.Fatalf("unexpected KPIs %+v", analytics.KPIs)
	}
	if len(analytics.RevenueByDay) != 30 {
		t.Fatalf("revenue series has %d days, want 30", len(analytics.RevenueByDay))
	}
	if len(analytics.OrdersByStatus) != 3 || analytics.OrdersByStatus[0].Status != "completed" {
		t.Fatalf("unexpected status counts %+v", analytics.OrdersByStatus)
	}
	if len(analytics.RecentOrders) != 5 {
		t.Fatalf("recent orders = %d, want 5", len(analytics.RecentOrders))
	}
}

func TestOrdersEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	rec := doJSON(t, routes, http.MethodGet, "/api/admin/orders?limit=2&status=all", "", auth)
	page := decodeData[store.OrderPage](t, rec)
	if page.Total != 5 || page.TotalPages != 3 || page.Limit != 2 {
		t.Fatalf("unexpected page shape %+v", page)
	}
	if len(page.Orders) != 2 || page.Orders[0].OrderNumber != "ORD-001" {
		t.Fatalf("unexpected first page %+v", page.Orders)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/admin/orders?search=jane", "", auth)
	page = decodeData[store.OrderPage](t, rec)
	if page.Total != 1 || page.Orders[0].OrderNumber != "ORD-002" {
		t.Fatalf("search miss: %+v", page)
	}
}

func TestUpdateOrderEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	rec := doJSON(t, routes, http.MethodPost, "/api/admin/orders/1", `{"status":"completed"}`, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}
	payload := decodeData[orderPayload](t, rec)
	if payload.Order.Status != "completed" {
		t.Fatalf("status = %q, want completed", payload.Order.Status)
	}
	if payload.Order.PaymentStatus != "pending" {
		t.Fatalf("payment status changed to %q", payload.Order.PaymentStatus)
	}

	missing := doJSON(t, routes, http.MethodPost, "/api/admin/orders/999", `{"status":"completed"}`, auth)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing order returned %d, want 404", missing.Code)
	}
	if env := decodeEnvelope(t, missing); env.Error != "Order not found" {
		t.Fatalf("missing-order error = %q", env.Error)
	}
}

func TestProductsEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	rec := doJSON(t, routes, http.MethodGet, "/api/admin/products?tribe=Maasai", "", auth)
	page := decodeData[store.ProductPage](t, rec)
	if page.Total != 1 || page.Products[0].Name != "Maasai Beaded Necklace" {
		t.Fatalf("tribe filter miss: %+v", page)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/admin/products?status=pending", "", auth)
	page = decodeData[store.ProductPage](t, rec)
	if page.Total != 1 || page.Products[0].Name != "Borana Clay Pot" {
		t.Fatalf("status filter miss: %+v", page)
	}
}

func TestManageProductsEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	created := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"create","name":"Kikuyu Gourd Bowl","price":45.5,"stock_quantity":9,"tribe":"Kikuyu","category":"Kitchenware"}`, auth)
	if created.Code != http.StatusOK {
		t.Fatalf("create returned %d: %s", created.Code, created.Body.String())
	}
	product := decodeData[productPayload](t, created).Product
	if product.ID != 6 || product.Status != "active" {
		t.Fatalf("unexpected created product %+v", product)
	}

	stocked := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"set_stock","id":6,"stock_quantity":3}`, auth)
	if p := decodeData[productPayload](t, stocked).Product; p.StockQuantity != 3 {
		t.Fatalf("stock = %d, want 3", p.StockQuantity)
	}

	archived := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"archive","id":6}`, auth)
	if p := decodeData[productPayload](t, archived).Product; p.Status != "archived" {
		t.Fatalf("status = %q, want archived", p.Status)
	}

	deleted := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"delete","id":6}`, auth)
	if deleted.Code != http.StatusOK {
		t.Fatalf("delete returned %d", deleted.Code)
	}

	noID := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"archive"}`, auth)
	if noID.Code != http.StatusBadRequest {
		t.Fatalf("missing id returned %d, want 400", noID.Code)
	}
	if env := decodeEnvelope(t, noID); env.Error != "Product id required" {
		t.Fatalf("missing-id error = %q", env.Error)
	}

	gone := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"archive","id":6}`, auth)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("deleted product returned %d, want 404", gone.Code)
	}

	unknown := doJSON(t, routes, http.MethodPost, "/api/admin/products",
		`{"action":"duplicate","id":1}`, auth)
	if unknown.Code != http.StatusBadRequest {
		t.Fatalf("unknown action returned %d, want 400", unknown.Code)
	}
	if env := decodeEnvelope(t, unknown); env.Error != "Unknown action" {
		t.Fatalf("unknown-action error = %q", env.Error)
	}
}

func TestUsersEndpoint(t *testing.T) {
	routes, auth := newAdminClient(t)

	rec := doJSON(t, routes, http.MethodGet, "/api/admin/users", "", auth)
	page := decodeData[store.UserPage](t, rec)
	if page.Total != 4 {
		t.Fatalf("total = %d, want 4 (admins excluded)", page.Total)
	}
	for _, u := range page.Users {
		if u.Role == "admin" {
			t.Fatalf("admin account leaked into listing: %+v", u)
		}
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/admin/users?role=supplier", "", auth)
	page = decodeData[store.UserPage](t, rec)
	if page.Total != 2 {
		t.Fatalf("supplier count = %d, want 2", page.Total)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/admin/users?search=otieno", "", auth)
	page = decodeData[store.UserPage](t, rec)
	if page.Total != 1 || page.Users[0].Email != "moses@samburu-art.com" {
		t.Fatalf("search miss: %+v", page)
	}
}
