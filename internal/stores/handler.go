package stores

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/pkg/httputil"
)

// Handler handles HTTP requests for the stores module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new stores handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterAdminRoutes registers admin-only store management routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/stores", h.CreateStore)
	r.Get("/stores", h.ListStores)
	r.Get("/stores/{id}", h.GetStore)
}

// RegisterCustomerRoutes registers customer store browsing routes.
func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/stores", h.ListStoresForCustomer)
}

// CreateStoreRequest represents the request body for creating a store.
// Store names carry no length policy beyond being required.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID *int64 `json:"owner_id"`
}

// ToDomain converts the request to a domain model.
func (r *CreateStoreRequest) ToDomain() *domain.Store {
	return &domain.Store{
		Name:    r.Name,
		Email:   r.Email,
		Address: r.Address,
		OwnerID: r.OwnerID,
	}
}

// CreateStore handles POST /admin/stores.
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	store := req.ToDomain()
	if err := h.service.CreateStore(r.Context(), store); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, store)
}

// ListStores handles GET /admin/stores.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := StoreFilter{
		Name:    q.Get("name"),
		Email:   q.Get("email"),
		Address: q.Get("address"),
	}
	filter.SortField, filter.SortOrder = httputil.ParseSort(q.Get("sort"))

	summaries, err := h.service.ListStores(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, summaries)
}

// GetStore handles GET /admin/stores/{id}.
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid store id")
		return
	}

	details, err := h.service.GetStoreDetails(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, details)
}

// ListStoresForCustomer handles GET /customer/stores.
func (h *Handler) ListStoresForCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := CustomerStoreFilter{
		Name:    q.Get("name"),
		Address: q.Get("address"),
	}
	filter.SortField, filter.SortOrder = httputil.ParseSort(q.Get("sort"))

	result, err := h.service.ListStoresForCustomer(r.Context(), userID, filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, result)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrStoreNotFound, Status: http.StatusNotFound},
		{Error: ErrOwnerNotFound, Status: http.StatusBadRequest},
		{Error: ErrInvalidSort, Status: http.StatusBadRequest},
	})
}
