package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hal-directory/backend/internal/adapters/memory"
	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

func validCompanyInput() services.CreateCompanyInput {
	return services.CreateCompanyInput{
		Name:        "Кондитерська Merry",
		Description: "Найсмачніші торти",
		Category:    entities.CategoryCafe,
		Location:    services.LocationInput{City: "Kyiv", Address: "вул. Хрещатик, 1"},
		Contacts:    services.ContactsInput{Phone: "+380441234567", Email: "merry@example.com"},
	}
}

func TestCompanyService_Create(t *testing.T) {
	store := memory.NewStore()
	service := services.NewCompanyService(store.Companies())

	company, err := service.Create(context.Background(), owner, validCompanyInput())
	require.NoError(t, err)

	assert.NotEmpty(t, company.ID)
	assert.Equal(t, "Кондитерська Merry", company.NameRu)
	assert.Equal(t, "Найсмачніші торти", company.DescriptionRu)
	assert.Zero(t, company.Rating)
	assert.Zero(t, company.ReviewCount)
	assert.True(t, company.IsActive)
	assert.NotNil(t, company.Images)
	require.NotNil(t, company.UserID)
	assert.Equal(t, owner.UserID, *company.UserID)

	stored, err := store.Companies().GetByID(context.Background(), company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.Name, stored.Name)
}

func TestCompanyService_Create_Validation(t *testing.T) {
	service := services.NewCompanyService(memory.NewStore().Companies())

	tests := []struct {
		name    string
		mutate  func(*services.CreateCompanyInput)
		message string
	}{
		{"missing name", func(in *services.CreateCompanyInput) { in.Name = "" }, "name is required"},
		{"missing city", func(in *services.CreateCompanyInput) { in.Location.City = "" }, "location.city is required"},
		{"missing phone", func(in *services.CreateCompanyInput) { in.Contacts.Phone = "" }, "contacts.phone is required"},
		{"bad email", func(in *services.CreateCompanyInput) { in.Contacts.Email = "nope" }, "contacts.email must be a valid email address"},
		{"unknown category", func(in *services.CreateCompanyInput) { in.Category = "bakery" }, "unknown category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCompanyInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), owner, input)
			require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCompanyService_Get(t *testing.T) {
	store := memory.NewStore()
	hidden := addCompany(t, store, "Прихована", inactive())
	service := services.NewCompanyService(store.Companies())
	ctx := context.Background()

	got, err := service.Get(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = service.Get(ctx, "not-an-id")
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, "Invalid company ID", err.Error())

	_, err = service.Get(ctx, uuid.New().String())
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Equal(t, "Company not found", err.Error())
}

func TestCompanyService_Get_MalformedIDSkipsStore(t *testing.T) {
	repo := new(MockCompanyRepository)
	service := services.NewCompanyService(repo)

	id := "6f1c2a9e-3b4d-4e5f-8a7b-9c0d1e2f3a4b"
	for _, malformed := range []string{
		"123",
		"urn:uuid:" + id,
		"{" + id + "}",
		strings.ReplaceAll(id, "-", ""),
		strings.ToUpper(id),
	} {
		_, err := service.Get(context.Background(), malformed)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), malformed)
	}
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCompanyService_Update(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Стара назва", ownedBy(owner), withRating(4.5, 2))
	service := services.NewCompanyService(store.Companies())
	ctx := context.Background()

	name := "Нова назва"
	updated, err := service.Update(ctx, owner, company.ID, services.UpdateCompanyInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Нова назва", updated.Name)
	assert.Equal(t, company.Description, updated.Description)
	assert.Equal(t, 4.5, updated.Rating)
	assert.Equal(t, 2, updated.ReviewCount)
	assert.Equal(t, owner.UserID, *updated.UserID)
	assert.True(t, updated.UpdatedAt.After(company.UpdatedAt))
}

func TestCompanyService_Update_Authorization(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія", ownedBy(owner))
	unowned := addCompany(t, store, "Без власника")
	service := services.NewCompanyService(store.Companies())
	ctx := context.Background()
	name := "Змінено"

	_, err := service.Update(ctx, other, company.ID, services.UpdateCompanyInput{Name: &name})
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	assert.Equal(t, "Not authorized to update this company", err.Error())

	unchanged, err := store.Companies().GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Компанія", unchanged.Name)

	_, err = service.Update(ctx, other, unowned.ID, services.UpdateCompanyInput{Name: &name})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	updated, err := service.Update(ctx, admin, company.ID, services.UpdateCompanyInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestCompanyService_Update_NestedFields(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія", ownedBy(owner))
	service := services.NewCompanyService(store.Companies())

	website := "https://example.com"
	updated, err := service.Update(context.Background(), owner, company.ID, services.UpdateCompanyInput{
		Location: &services.LocationInput{City: "Lviv", Address: "пл. Ринок, 1"},
		Contacts: &services.ContactsInput{Phone: "+380321234567", Website: &website},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lviv", updated.Location.City)
	assert.Equal(t, "+380321234567", updated.Contacts.Phone)
	require.NotNil(t, updated.Contacts.Website)
	assert.Equal(t, website, *updated.Contacts.Website)
}

func TestCompanyService_Update_InvalidCategory(t *testing.T) {
	repo := new(MockCompanyRepository)
	service := services.NewCompanyService(repo)
	category := entities.Category("bakery")

	_, err := service.Update(context.Background(), owner, uuid.New().String(), services.UpdateCompanyInput{Category: &category})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCompanyService_Delete(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія", ownedBy(owner))
	addReview(t, store, company.ID, 5)
	service := services.NewCompanyService(store.Companies())
	ctx := context.Background()

	err := service.Delete(ctx, other, company.ID)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	assert.Equal(t, "Not authorized to delete this company", err.Error())

	require.NoError(t, service.Delete(ctx, owner, company.ID))

	_, err = store.Companies().GetByID(ctx, company.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	count, err := store.Reviews().CountByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = service.Delete(ctx, owner, company.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCanMutateCompany(t *testing.T) {
	ownerID := owner.UserID
	owned := &entities.Company{UserID: &ownerID}
	orphan := &entities.Company{}

	assert.True(t, services.CanMutateCompany(owner, owned))
	assert.False(t, services.CanMutateCompany(other, owned))
	assert.True(t, services.CanMutateCompany(admin, owned))
	assert.False(t, services.CanMutateCompany(owner, orphan))
	assert.True(t, services.CanMutateCompany(admin, orphan))
}
