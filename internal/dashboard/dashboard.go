// Package dashboard provides the admin dashboard aggregates.
package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ratewell/store-ratings/internal/pkg/ctxlog"
	"github.com/ratewell/store-ratings/internal/pkg/httputil"
)

// Totals are the platform-wide counts shown on the admin dashboard.
type Totals struct {
	TotalUsers   int `json:"totalUsers"`
	TotalStores  int `json:"totalStores"`
	TotalRatings int `json:"totalRatings"`
}

// Repository defines the interface for dashboard data operations.
type Repository interface {
	GetTotals(ctx context.Context) (*Totals, error)
}

// Handler handles HTTP requests for the dashboard module.
type Handler struct {
	repo Repository
}

// NewHandler creates a new dashboard handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterAdminRoutes registers the admin dashboard route.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetTotals)
}

// GetTotals handles GET /admin/dashboard.
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.repo.GetTotals(r.Context())
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("dashboard: internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.Success(w, http.StatusOK, totals)
}
