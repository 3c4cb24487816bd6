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

var userCols = []string{"id", "email", "first_name", "last_name", "profile_image_url", "role", "created_at", "updated_at"}

func TestPostgresStore_CreateUser_KeepsSubjectID(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(q("INSERT INTO users (id, email, first_name, last_name, profile_image_url, role)")).
		WithArgs("sub-42", "ann@example.com", "Ann", nil, nil, "user").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("sub-42", "ann@example.com", "Ann", nil, nil, "user", now, now))

	user, err := store.CreateUser(context.Background(), &domain.User{
		ID:        "sub-42",
		Email:     PtrTo("ann@example.com"),
		FirstName: PtrTo("Ann"),
	})

	require.NoError(t, err)
	assert.Equal(t, "sub-42", user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateUser_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		pqErr   *pq.Error
		wantErr error
	}{
		{name: "email taken", pqErr: &pq.Error{Code: "23505", Constraint: "users_email_key"}, wantErr: ErrEmailExists},
		{name: "subject taken", pqErr: &pq.Error{Code: "23505", Constraint: "users_pkey"}, wantErr: ErrUserExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, store := newMockDBAndStore(t)
			defer db.Close()

			mock.ExpectQuery(q("INSERT INTO users")).WillReturnError(tt.pqErr)

			user, err := store.CreateUser(context.Background(), &domain.User{ID: "sub-1"})

			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, domain.ErrConflict))
			assert.Nil(t, user)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_GetUserByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("FROM users WHERE id = $1")).WithArgs("nobody").WillReturnRows(sqlmock.NewRows(userCols))

	user, err := store.GetUserByID(context.Background(), "nobody")

	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateUser_ChangesRole(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(q("UPDATE users")).
		WithArgs(nil, nil, nil, nil, "developer", "u1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", nil, nil, nil, nil, "developer", now, now))

	user, err := store.UpdateUser(context.Background(), &domain.User{ID: "u1", Role: domain.RoleDeveloper})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleDeveloper, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteUser_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(q("DELETE FROM users WHERE id = $1")).WithArgs("nobody").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.True(t, errors.Is(store.DeleteUser(context.Background(), "nobody"), ErrUserNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateSellerProfile_AlreadyExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("INSERT INTO seller_profiles")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "seller_profiles_user_id_key"})

	profile, err := store.CreateSellerProfile(context.Background(), &domain.SellerProfile{UserID: "u1"})

	assert.True(t, errors.Is(err, ErrSellerProfileExists))
	assert.Nil(t, profile)
	require.NoError(t, mock.ExpectationsWereMet())
}
