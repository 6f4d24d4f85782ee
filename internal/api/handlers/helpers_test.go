package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hal-directory/backend/internal/adapters/credentials"
	"github.com/hal-directory/backend/internal/adapters/memory"
	"github.com/hal-directory/backend/internal/api/middleware"
	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/pkg/config"
)

var (
	alice = entities.Principal{UserID: "5b7c8d9e-0f1a-4b2c-8d3e-4f5a6b7c8d9e", Name: "Аліса", Role: entities.RoleUser}
	bob   = entities.Principal{UserID: "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b", Name: "Борис", Role: entities.RoleUser}
	root  = entities.Principal{UserID: "0a1b2c3d-4e5f-4a6b-9c8d-7e6f5a4b3c2d", Name: "Admin", Role: entities.RoleAdmin}
)

type testServices struct {
	store     *memory.Store
	companies *services.CompanyService
	reviews   *services.ReviewService
	auth      *services.AuthService
	blog      *services.BlogService
	contact   *services.ContactService
	category  *services.CategoryService
}

func newTestServices() *testServices {
	store := memory.NewStore()
	aggregator := services.NewRatingAggregator(store.Companies(), store.Reviews())
	provider := credentials.NewProvider(config.AuthConfig{JWTSecret: "handler-secret", TokenTTL: time.Hour, BcryptCost: 4})
	return &testServices{
		store:     store,
		companies: services.NewCompanyService(store.Companies()),
		reviews:   services.NewReviewService(store.Companies(), store.Reviews(), aggregator, nil),
		auth:      services.NewAuthService(store.Users(), provider),
		blog:      services.NewBlogService(store.Blog()),
		contact:   services.NewContactService(store.Contacts()),
		category:  services.NewCategoryService(store.Companies()),
	}
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asPrincipal(req *http.Request, p entities.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

const companyPayload = `{
	"name": "Кондитерська Merry",
	"description": "Найсмачніші торти",
	"category": "cafe",
	"location": {"city": "Kyiv", "address": "вул. Хрещатик, 1"},
	"contacts": {"phone": "+380441234567", "email": "merry@example.com"}
}`

func createCompany(t *testing.T, svc *testServices, owner entities.Principal) *entities.Company {
	t.Helper()
	var input services.CreateCompanyInput
	require.NoError(t, json.Unmarshal([]byte(companyPayload), &input))
	company, err := svc.companies.Create(t.Context(), owner, input)
	require.NoError(t, err)
	return company
}
