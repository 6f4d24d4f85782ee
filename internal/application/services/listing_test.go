package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hal-directory/backend/internal/adapters/memory"
	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

func listParams(page, limit int) services.ListParams {
	return services.ListParams{Page: page, Limit: limit, Sort: entities.CompanySortRecent}
}

func TestListParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  services.ListParams
		wantErr bool
	}{
		{"defaults", listParams(1, 20), false},
		{"max limit", listParams(1, 100), false},
		{"page zero", listParams(0, 20), true},
		{"limit zero", listParams(1, 0), true},
		{"limit too large", listParams(1, 101), true},
		{"unknown sort", services.ListParams{Page: 1, Limit: 20, Sort: "cheapest"}, true},
		{"unknown category", services.ListParams{Page: 1, Limit: 20, Category: "bakery"}, true},
		{"empty sort", services.ListParams{Page: 1, Limit: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompanyService_List_InvalidParamsDoNotTouchStore(t *testing.T) {
	repo := new(MockCompanyRepository)
	service := services.NewCompanyService(repo)

	_, err := service.List(context.Background(), listParams(1, 500))

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestCompanyService_List_OnlyActiveAndTotals(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 5; i++ {
		addCompany(t, store, "Кава")
	}
	addCompany(t, store, "Закрита кава", inactive())

	service := services.NewCompanyService(store.Companies())

	page, err := service.List(context.Background(), listParams(1, 2))
	require.NoError(t, err)
	assert.Len(t, page.Companies, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.Pages)
	for _, c := range page.Companies {
		assert.True(t, c.IsActive)
	}
}

func TestCompanyService_List_PagesPartitionResults(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		// two companies share each timestamp so the id tie-break matters
		addCompany(t, store, "Компанія", createdAt(base.Add(time.Duration(i/2)*time.Hour)))
	}
	service := services.NewCompanyService(store.Companies())

	seen := map[string]bool{}
	var ordered []*entities.Company
	for p := 1; p <= 3; p++ {
		page, err := service.List(context.Background(), listParams(p, 3))
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, 3, page.Pages)
		for _, c := range page.Companies {
			assert.False(t, seen[c.ID], "company %s returned twice", c.ID)
			seen[c.ID] = true
			ordered = append(ordered, c)
		}
	}
	assert.Len(t, seen, 7)

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.CreatedAt.Equal(cur.CreatedAt) {
			assert.Greater(t, prev.ID, cur.ID)
		} else {
			assert.True(t, prev.CreatedAt.After(cur.CreatedAt))
		}
	}
}

func TestCompanyService_List_PagePastEnd(t *testing.T) {
	store := memory.NewStore()
	addCompany(t, store, "Одна")
	service := services.NewCompanyService(store.Companies())

	page, err := service.List(context.Background(), listParams(5, 20))
	require.NoError(t, err)
	assert.Empty(t, page.Companies)
	assert.NotNil(t, page.Companies)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Pages)
}

func TestCompanyService_List_EmptyStore(t *testing.T) {
	service := services.NewCompanyService(memory.NewStore().Companies())

	page, err := service.List(context.Background(), listParams(1, 20))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Pages)
}

func TestCompanyService_List_Filters(t *testing.T) {
	store := memory.NewStore()
	addCompany(t, store, "Фітнес клуб", withCategory(entities.CategorySport), newOnly())
	addCompany(t, store, "Спортзал", withCategory(entities.CategorySport))
	addCompany(t, store, "Кав'ярня", withCategory(entities.CategoryCafe), newOnly())
	service := services.NewCompanyService(store.Companies())
	ctx := context.Background()

	params := listParams(1, 20)
	params.Category = entities.CategorySport
	page, err := service.List(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	isNew := true
	params.IsNew = &isNew
	page, err = service.List(ctx, params)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Фітнес клуб", page.Companies[0].Name)

	params = listParams(1, 20)
	params.Search = "КАВ"
	page, err = service.List(ctx, params)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Кав'ярня", page.Companies[0].Name)
}

func TestCompanyService_List_SearchMatchesEveryTextField(t *testing.T) {
	store := memory.NewStore()
	addCompany(t, store, "Перша", withTexts("Первая", "Звичайна кав'ярня", "Обычное место"))
	addCompany(t, store, "Друга", withTexts("Вторая", "Звичайне місце", "Кофейня у парка"))
	addCompany(t, store, "Третя", withTexts("Пекарня Третья", "Звичайне місце", "Обычное место"))
	addCompany(t, store, "Четверта", withTexts("Четвертая", "Звичайне місце", "Обычное место"))
	service := services.NewCompanyService(store.Companies())

	tests := []struct {
		search string
		want   string
	}{
		{search: "кав'ЯРНЯ", want: "Перша"},
		{search: "кофейня", want: "Друга"},
		{search: "ПЕКАРНЯ", want: "Третя"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			params := listParams(1, 20)
			params.Search = tt.search
			page, err := service.List(context.Background(), params)
			require.NoError(t, err)
			require.Equal(t, 1, page.Total)
			assert.Equal(t, tt.want, page.Companies[0].Name)
		})
	}
}

func TestCompanyService_List_SortModes(t *testing.T) {
	store := memory.NewStore()
	a := addCompany(t, store, "A", withRating(4.9, 3))
	b := addCompany(t, store, "B", withRating(4.0, 10))
	c := addCompany(t, store, "C", withRating(4.9, 8))
	service := services.NewCompanyService(store.Companies())

	names := func(sort entities.CompanySort) []string {
		page, err := service.List(context.Background(), services.ListParams{Page: 1, Limit: 10, Sort: sort})
		require.NoError(t, err)
		var out []string
		for _, co := range page.Companies {
			out = append(out, co.Name)
		}
		return out
	}

	assert.Equal(t, []string{c.Name, a.Name, b.Name}, names(entities.CompanySortRating))
	assert.Equal(t, []string{b.Name, c.Name, a.Name}, names(entities.CompanySortPopular))
}

func TestCompanyService_List_StoreErrorPropagates(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.NewInternalError("failed to list companies", errors.New("connection refused")))
	repo.On("Count", mock.Anything, mock.Anything).Return(0, nil).Maybe()
	service := services.NewCompanyService(repo)

	_, err := service.List(context.Background(), listParams(1, 20))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}
