package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

func seedCompany(t *testing.T, s *Store, id, name string, active bool) {
	t.Helper()
	require.NoError(t, s.Companies().Create(context.Background(), &entities.Company{
		ID:        id,
		Name:      name,
		Category:  entities.CategoryCafe,
		IsActive:  active,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func TestStore_SearchIsLiteralAndCaseInsensitive(t *testing.T) {
	s := NewStore()
	seedCompany(t, s, "a", "Кава 100% Арабіка", true)
	seedCompany(t, s, "b", "Кава 1000 чашок", true)
	seedCompany(t, s, "c", "КАВА закрита", false)

	ctx := context.Background()
	n, err := s.Companies().Count(ctx, repositories.CompanyFilter{ActiveOnly: true, Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Companies().Count(ctx, repositories.CompanyFilter{ActiveOnly: true, Search: "кава"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Companies().Count(ctx, repositories.CompanyFilter{Search: "кава"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_ListTieBreaksOnID(t *testing.T) {
	s := NewStore()
	seedCompany(t, s, "a", "A", true)
	seedCompany(t, s, "c", "C", true)
	seedCompany(t, s, "b", "B", true)

	list, err := s.Companies().List(context.Background(), repositories.CompanyQuery{
		Filter: repositories.CompanyFilter{ActiveOnly: true},
		Sort: []repositories.SortKey{
			{Field: repositories.SortFieldCreatedAt, Desc: true},
			{Field: repositories.SortFieldID, Desc: true},
		},
		Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}

func TestStore_DeleteCascadesReviews(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedCompany(t, s, "a", "A", true)
	require.NoError(t, s.Reviews().Create(ctx, &entities.Review{ID: "r1", CompanyID: "a", UserID: "u1", Rating: 4}))

	require.NoError(t, s.Companies().Delete(ctx, "a"))

	n, err := s.Reviews().CountByCompany(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)

	err = s.Companies().Delete(ctx, "a")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestStore_ReviewUniquePerUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedCompany(t, s, "a", "A", true)
	require.NoError(t, s.Reviews().Create(ctx, &entities.Review{ID: "r1", CompanyID: "a", UserID: "u1", Rating: 4}))

	err := s.Reviews().Create(ctx, &entities.Review{ID: "r2", CompanyID: "a", UserID: "u1", Rating: 2})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestStore_ReviewForMissingCompany(t *testing.T) {
	s := NewStore()

	err := s.Reviews().Create(context.Background(), &entities.Review{ID: "r1", CompanyID: "gone", UserID: "u1", Rating: 5})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedCompany(t, s, "a", "A", true)

	got, err := s.Companies().GetByID(ctx, "a")
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.Companies().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	assert.Equal(t, []int{5}, paginate(items, 4, 2))
	assert.Equal(t, []int{}, paginate(items, 10, 2))
}
