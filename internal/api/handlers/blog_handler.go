package handlers

import (
	"context"
	"net/http"

	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
)

// BlogService defines the blog operations used by the handler
type BlogService interface {
	List(ctx context.Context, page, limit int) (*entities.BlogPage, error)
	Get(ctx context.Context, id string) (*entities.BlogPost, error)
}

// BlogHandler serves blog posts
type BlogHandler struct {
	service BlogService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// ListPosts handles GET /api/blog
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r, services.DefaultPage, services.DefaultLimit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// GetPost handles GET /api/blog/{id}
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, post)
}
