package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nomadtreasures/adminauth/internal/store"
)

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeData(w, stats)
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.store.Analytics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeData(w, analytics)
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.store.ListOrders(r.Context(), store.OrderFilter{
		Paging: pagingFromQuery(r),
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeData(w, page)
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.store.ListProducts(r.Context(), store.ProductFilter{
		Paging:   pagingFromQuery(r),
		Status:   q.Get("status"),
		Tribe:    q.Get("tribe"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeData(w, page)
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.store.ListUsers(r.Context(), store.UserFilter{
		Paging: pagingFromQuery(r),
		Role:   q.Get("role"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeData(w, page)
}

type orderUpdateRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type orderPayload struct {
	Order store.Order `json:"order"`
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	var req orderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.store.UpdateOrder(r.Context(), id, store.OrderUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeData(w, orderPayload{Order: order})
}

// productActionRequest is the dispatch body for POST /api/admin/products.
// Pointer fields distinguish "absent" from zero so update patches only what
// the client sent.
type productActionRequest struct {
	Action        string   `json:"action"`
	ID            int64    `json:"id"`
	Name          *string  `json:"name"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	Status        *string  `json:"status"`
	Tribe         *string  `json:"tribe"`
	Category      *string  `json:"category"`
}

type productPayload struct {
	Product store.Product `json:"product"`
}

func (h *Handler) handleManageProducts(w http.ResponseWriter, r *http.Request) {
	var req productActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()

	if req.Action == "create" {
		product, err := h.store.CreateProduct(ctx, store.ProductInput{
			Name:          strDeref(req.Name),
			Price:         floatDeref(req.Price),
			StockQuantity: intDeref(req.StockQuantity),
			Status:        strDeref(req.Status),
			Tribe:         strDeref(req.Tribe),
			Category:      strDeref(req.Category),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeData(w, productPayload{Product: product})
		return
	}

	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "Product id required")
		return
	}

	var (
		product store.Product
		err     error
	)
	switch req.Action {
	case "update":
		product, err = h.store.UpdateProduct(ctx, req.ID, store.ProductUpdate{
			Name:          req.Name,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
			Status:        req.Status,
			Tribe:         req.Tribe,
			Category:      req.Category,
		})
	case "delete":
		product, err = h.store.DeleteProduct(ctx, req.ID)
	case "archive":
		product, err = h.store.ArchiveProduct(ctx, req.ID)
	case "set_stock":
		product, err = h.store.SetProductStock(ctx, req.ID, intDeref(req.StockQuantity))
	case "set_price":
		product, err = h.store.SetProductPrice(ctx, req.ID, floatDeref(req.Price))
	default:
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeData(w, productPayload{Product: product})
}

func pagingFromQuery(r *http.Request) store.Paging {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return store.Paging{Page: page, Limit: limit}
}

func strDeref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatDeref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intDeref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
