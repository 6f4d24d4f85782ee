package handlers

import (
	"context"
	"net/http"

	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	ListByCompany(ctx context.Context, companyID string, page, limit int) (*entities.ReviewPage, error)
	Create(ctx context.Context, principal entities.Principal, companyID string, input services.CreateReviewInput) (*entities.Review, error)
}

// ReviewHandler handles company reviews
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews handles GET /api/companies/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r, services.DefaultPage, services.DefaultLimit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.service.ListByCompany(r.Context(), r.PathValue("id"), page, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// CreateReview handles POST /api/companies/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input services.CreateReviewInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Create(r.Context(), principal, r.PathValue("id"), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}
