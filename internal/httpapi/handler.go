// Package httpapi exposes the admin surface over HTTP: the auth endpoints,
// the guarded back-office endpoints, and the shared middleware (request
// logging, per-IP rate limiting). Responses follow the success/data/error
// envelope the admin SPA consumes.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	adminauth "github.com/nomadtreasures/adminauth"
	"github.com/nomadtreasures/adminauth/internal/config"
	"github.com/nomadtreasures/adminauth/internal/store"
	"github.com/nomadtreasures/adminauth/middleware"
)

// Handler routes the admin API. It owns the per-endpoint rate limiters so
// the same limits apply no matter how the handler is mounted.
type Handler struct {
	engine *adminauth.Engine
	store  store.Store

	loginLimiter  *tokenLimiter
	forgotLimiter *tokenLimiter
	resetLimiter  *tokenLimiter
}

func NewHandler(engine *adminauth.Engine, st store.Store, cfg config.Config) *Handler {
	return &Handler{
		engine:        engine,
		store:         st,
		loginLimiter:  newTokenLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow),
		forgotLimiter: newTokenLimiter(cfg.ForgotRateLimit, cfg.ForgotRateWindow),
		resetLimiter:  newTokenLimiter(cfg.ResetRateLimit, cfg.ResetRateWindow),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", h.handlePing)
	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("POST /api/login", h.loginLimiter.wrap(h.handleLogin))
	mux.HandleFunc("POST /api/logout", h.handleLogout)
	mux.HandleFunc("POST /api/admin/forgot-password", h.forgotLimiter.wrap(h.handleForgotPassword))
	mux.HandleFunc("POST /api/admin/reset-password", h.resetLimiter.wrap(h.handleResetPassword))

	guard := middleware.Guard(h.engine)
	mux.Handle("GET /api/admin/dashboard", guard(http.HandlerFunc(h.handleDashboard)))
	mux.Handle("GET /api/admin/analytics", guard(http.HandlerFunc(h.handleAnalytics)))
	mux.Handle("GET /api/admin/orders", guard(http.HandlerFunc(h.handleOrders)))
	mux.Handle("POST /api/admin/orders/{id}", guard(http.HandlerFunc(h.handleUpdateOrder)))
	mux.Handle("GET /api/admin/products", guard(http.HandlerFunc(h.handleProducts)))
	mux.Handle("POST /api/admin/products", guard(http.HandlerFunc(h.handleManageProducts)))
	mux.Handle("GET /api/admin/users", guard(http.HandlerFunc(h.handleUsers)))

	return mux
}

func (h *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from Express server v2!"})
}

type healthResponse struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Endpoints []string `json:"endpoints"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Endpoints: []string{"/api/ping", "/api/login", "/api/admin/dashboard"},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Token   string                 `json:"token"`
	User    adminauth.AdminProfile `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := adminauth.WithClientIP(r.Context(), clientIP(r))
	result, err := h.engine.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, adminauth.ErrAdminRequired):
			writeError(w, http.StatusForbidden, "Access denied. Admin role required.")
		case errors.Is(err, adminauth.ErrStoreUnavailable):
			writeError(w, http.StatusInternalServerError, "Server error")
		default:
			// Unknown email and wrong password collapse into one answer.
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))

	ctx := adminauth.WithClientIP(r.Context(), clientIP(r))
	if err := h.engine.Logout(ctx, token); err != nil {
		log.Printf("logout: %v", err)
	}

	// Logout always succeeds from the client's point of view.
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := adminauth.WithClientIP(r.Context(), clientIP(r))
	if err := h.engine.RequestPasswordReset(ctx, req.Email); err != nil {
		// The response stays generic even on backend failure; anything else
		// would confirm which emails exist.
		log.Printf("forgot-password: %v", err)
	}

	writeMessage(w, "If that account exists, a password reset email has been sent.")
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := adminauth.WithClientIP(r.Context(), clientIP(r))
	err := h.engine.ConfirmPasswordReset(ctx, req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, adminauth.ErrResetFieldsRequired):
			writeError(w, http.StatusBadRequest, "Token and new password are required")
		case errors.Is(err, adminauth.ErrResetInvalid):
			writeError(w, http.StatusBadRequest, "Invalid or expired token")
		default:
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeMessage(w, "Password has been reset. You can now sign in.")
}

// bearerToken strips the Bearer scheme case-insensitively. An empty result
// means no usable token was sent.
func bearerToken(header string) string {
	const bearer = "Bearer "
	if len(header) <= len(bearer) {
		return ""
	}
	if !strings.EqualFold(header[:len(bearer)], bearer) {
		return ""
	}
	return header[len(bearer):]
}
