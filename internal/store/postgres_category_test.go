package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/domain"
)

var categoryCols = []string{"id", "name", "description", "created_at"}

func TestPostgresStore_CreateCategory(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	categoryToCreate := &domain.Category{
		Name:        "Templates",
		Description: PtrTo("Website and document templates"),
	}

	rows := sqlmock.NewRows(categoryCols).
		AddRow("id-1", categoryToCreate.Name, *categoryToCreate.Description, now)

	mock.ExpectQuery(q("INSERT INTO categories (id, name, description)")).
		WithArgs("id-1", categoryToCreate.Name, categoryToCreate.Description).
		WillReturnRows(rows)

	createdCategory, err := store.CreateCategory(context.Background(), categoryToCreate)

	require.NoError(t, err, "CreateCategory should not return an error")
	require.NotNil(t, createdCategory)
	assert.Equal(t, "id-1", createdCategory.ID)
	assert.Equal(t, categoryToCreate.Name, createdCategory.Name)
	assert.Equal(t, categoryToCreate.Description, createdCategory.Description)
	assert.WithinDuration(t, now, createdCategory.CreatedAt, time.Second)

	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_CreateCategory_NameExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	pqErr := &pq.Error{Code: "23505", Constraint: "categories_name_key"}
	mock.ExpectQuery(q("INSERT INTO categories")).
		WithArgs("id-1", "Software", nil).
		WillReturnError(pqErr)

	createdCategory, err := store.CreateCategory(context.Background(), &domain.Category{Name: "Software"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryNameExists), "Error should be ErrCategoryNameExists")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Nil(t, createdCategory)

	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_ListCategories(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(categoryCols).
		AddRow("c1", "Apps", nil, now).
		AddRow("c2", "Templates", "Docs", now)
	mock.ExpectQuery(q("FROM categories ORDER BY name ASC")).WillReturnRows(rows)

	categories, err := store.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Nil(t, categories[0].Description)
	assert.Equal(t, "Docs", *categories[1].Description)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCategoryByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("FROM categories WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(categoryCols))

	category, err := store.GetCategoryByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
	assert.Nil(t, category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCategory_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("UPDATE categories")).
		WithArgs("Apps", nil, "missing").
		WillReturnRows(sqlmock.NewRows(categoryCols))

	category, err := store.UpdateCategory(context.Background(), &domain.Category{ID: "missing", Name: "Apps"})

	assert.True(t, errors.Is(err, ErrCategoryNotFound))
	assert.Nil(t, category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteCategory(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(q("DELETE FROM categories WHERE id = $1")).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(q("DELETE FROM categories WHERE id = $1")).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrCategoryNotFound,
		},
		{
			name: "still referenced by products",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(q("DELETE FROM categories WHERE id = $1")).WithArgs("c1").WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: ErrCategoryInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, store := newMockDBAndStore(t)
			defer db.Close()
			tt.setup(mock)

			err := store.DeleteCategory(context.Background(), "c1")

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
