package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hal-directory/backend/internal/adapters/memory"
	"github.com/hal-directory/backend/internal/domain/entities"
)

var (
	owner = entities.Principal{UserID: "7d0e3c55-0b38-4a53-9d7e-5a3c1f2b4e01", Name: "Олена", Role: entities.RoleUser}
	other = entities.Principal{UserID: "1a9f6b0c-2d4e-4f8a-b3c7-6e5d4c3b2a10", Name: "Петро", Role: entities.RoleUser}
	admin = entities.Principal{UserID: "c4b3a291-8e7d-4c6b-a5f4-3e2d1c0b9a87", Name: "Адмін", Role: entities.RoleAdmin}
)

type companyOpt func(*entities.Company)

func withCategory(c entities.Category) companyOpt {
	return func(co *entities.Company) { co.Category = c }
}

func withRating(rating float64, count int) companyOpt {
	return func(co *entities.Company) {
		co.Rating = rating
		co.ReviewCount = count
	}
}

func inactive() companyOpt {
	return func(co *entities.Company) { co.IsActive = false }
}

func newOnly() companyOpt {
	return func(co *entities.Company) { co.IsNew = true }
}

func createdAt(t time.Time) companyOpt {
	return func(co *entities.Company) { co.CreatedAt = t }
}

func withTexts(nameRu, description, descriptionRu string) companyOpt {
	return func(co *entities.Company) {
		co.NameRu = nameRu
		co.Description = description
		co.DescriptionRu = descriptionRu
	}
}

func ownedBy(p entities.Principal) companyOpt {
	return func(co *entities.Company) {
		id := p.UserID
		co.UserID = &id
	}
}

func addCompany(t *testing.T, store *memory.Store, name string, opts ...companyOpt) *entities.Company {
	t.Helper()
	c := &entities.Company{
		ID:            uuid.New().String(),
		Name:          name,
		NameRu:        name,
		Description:   "Опис " + name,
		DescriptionRu: "Описание " + name,
		Category:      entities.CategoryCafe,
		Location:      entities.Location{City: "Kyiv", Address: "вул. Хрещатик, 1"},
		Contacts:      entities.Contacts{Phone: "+380441234567"},
		Images:        []string{},
		IsActive:      true,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(c)
	}
	require.NoError(t, store.Companies().Create(context.Background(), c))
	return c
}
