package routes

import (
	"net/http"

	"github.com/hal-directory/backend/internal/api/handlers"
	"github.com/hal-directory/backend/internal/api/middleware"
	"github.com/hal-directory/backend/internal/infrastructure/observability"
)

// Handlers groups the route handlers served by the API
type Handlers struct {
	Health   *handlers.HealthHandler
	Company  *handlers.CompanyHandler
	Category *handlers.CategoryHandler
	Auth     *handlers.AuthHandler
	Review   *handlers.ReviewHandler
	Blog     *handlers.BlogHandler
	Contact  *handlers.ContactHandler
}

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	handlers       Handlers
	authenticator  middleware.Authenticator
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	h Handlers,
	authenticator middleware.Authenticator,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		handlers:       h,
		authenticator:  authenticator,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	requireAuth := middleware.RequireAuth(r.authenticator)
	protected := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}

	// Health and root
	r.mux.HandleFunc("GET /health", r.handlers.Health.Health)
	r.mux.HandleFunc("GET /ready", r.handlers.Health.Ready)
	r.mux.HandleFunc("GET /api/{$}", r.handlers.Health.Root)

	// Company endpoints
	r.mux.HandleFunc("GET /api/companies", r.handlers.Company.ListCompanies)
	r.mux.HandleFunc("GET /api/companies/{id}", r.handlers.Company.GetCompany)
	r.mux.Handle("POST /api/companies", protected(r.handlers.Company.CreateCompany))
	r.mux.Handle("PUT /api/companies/{id}", protected(r.handlers.Company.UpdateCompany))
	r.mux.Handle("DELETE /api/companies/{id}", protected(r.handlers.Company.DeleteCompany))

	// Review endpoints
	r.mux.HandleFunc("GET /api/companies/{id}/reviews", r.handlers.Review.ListReviews)
	r.mux.Handle("POST /api/companies/{id}/reviews", protected(r.handlers.Review.CreateReview))

	r.mux.HandleFunc("GET /api/categories", r.handlers.Category.ListCategories)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.handlers.Auth.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.handlers.Auth.Login)
	r.mux.Handle("GET /api/auth/me", protected(r.handlers.Auth.Me))

	// Blog endpoints
	r.mux.HandleFunc("GET /api/blog", r.handlers.Blog.ListPosts)
	r.mux.HandleFunc("GET /api/blog/{id}", r.handlers.Blog.GetPost)

	r.mux.HandleFunc("POST /api/contact", r.handlers.Contact.SubmitContact)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so preflight requests never reach the mux.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
