package ratings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ratewell/store-ratings/internal/pkg/ctxlog"
	"github.com/ratewell/store-ratings/internal/pkg/httputil"
	"github.com/ratewell/store-ratings/internal/validate"
)

// Handler handles HTTP requests for the ratings module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new ratings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterCustomerRoutes registers customer rating routes.
func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Post("/ratings", h.SubmitRating)
	r.Get("/my-ratings", h.MyRatings)
}

// RegisterOwnerRoutes registers store owner routes.
func (h *Handler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/ratings", h.OwnerReport)
}

// SubmitRatingRequest represents the rating submission request body.
type SubmitRatingRequest struct {
	StoreID int64  `json:"store_id" validate:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitRating handles POST /customer/ratings. A first-time rating returns
// 201, an update of an existing one returns 200.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	created, err := h.service.SubmitRating(r.Context(), userID, SubmitRatingInput{
		StoreID: req.StoreID,
		Score:   req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if created {
		httputil.Success(w, http.StatusCreated, map[string]string{
			"message": "rating submitted",
		})
		return
	}
	httputil.Success(w, http.StatusOK, map[string]string{
		"message": "rating updated",
	})
}

// MyRatings handles GET /customer/my-ratings.
func (h *Handler) MyRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ratings, err := h.service.MyRatings(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, ratings)
}

// OwnerReport handles GET /storeowner/ratings.
func (h *Handler) OwnerReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	report, err := h.service.OwnerReport(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, report)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *validate.FieldError
	switch {
	case errors.As(err, &fieldErr):
		httputil.Error(w, http.StatusBadRequest, fieldErr.Error())
	case errors.Is(err, ErrStoreNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	default:
		ctxlog.FromContext(r.Context()).Error("ratings: internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
