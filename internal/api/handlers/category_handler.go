package handlers

import (
	"context"
	"net/http"

	"github.com/hal-directory/backend/internal/domain/entities"
)

// CategoryService defines the category operations used by the handler
type CategoryService interface {
	List(ctx context.Context) ([]entities.CategoryWithCount, error)
}

// CategoryHandler serves the category list
type CategoryHandler struct {
	service CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}
