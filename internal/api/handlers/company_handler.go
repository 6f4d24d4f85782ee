package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
)

// CompanyService defines the company operations used by the handler
type CompanyService interface {
	List(ctx context.Context, params services.ListParams) (*entities.CompanyPage, error)
	Get(ctx context.Context, id string) (*entities.Company, error)
	Create(ctx context.Context, principal entities.Principal, input services.CreateCompanyInput) (*entities.Company, error)
	Update(ctx context.Context, principal entities.Principal, id string, input services.UpdateCompanyInput) (*entities.Company, error)
	Delete(ctx context.Context, principal entities.Principal, id string) error
}

// CompanyHandler handles company-related HTTP requests
type CompanyHandler struct {
	service CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// ListCompanies handles GET /api/companies
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r, services.DefaultPage, services.DefaultLimit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	isNew, err := queryBool(r, "isNew")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	query := r.URL.Query()
	sort := entities.CompanySort(query.Get("sort"))
	if sort == "" {
		sort = entities.CompanySortRecent
	}

	result, err := h.service.List(r.Context(), services.ListParams{
		Page:     page,
		Limit:    limit,
		Category: entities.Category(query.Get("category")),
		Search:   strings.TrimSpace(query.Get("search")),
		Sort:     sort,
		IsNew:    isNew,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetCompany handles GET /api/companies/{id}
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, company)
}

// CreateCompany handles POST /api/companies
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input services.CreateCompanyInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	company, err := h.service.Create(r.Context(), principal, input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, company)
}

// UpdateCompany handles PUT /api/companies/{id}
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input services.UpdateCompanyInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	company, err := h.service.Update(r.Context(), principal, r.PathValue("id"), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, company)
}

// DeleteCompany handles DELETE /api/companies/{id}
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal, r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Company deleted successfully",
	})
}
