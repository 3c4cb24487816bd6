package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-service/internal/domain"
)

const userColumns = `id, email, first_name, last_name, profile_image_url, role, created_at, updated_at`

// --- UserStorer Implementation ---

// CreateUser inserts a user. The id is kept when set (identity-provider subject), otherwise generated.
func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	id := user.ID
	if id == "" {
		id = s.newID()
	}
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns + `;
	`
	var created domain.User
	err := s.db.GetContext(ctx, &created, query, id, user.Email, user.FirstName, user.LastName, user.ProfileImageURL, role)
	if err != nil {
		if isUniqueViolation(err, "email") {
			return nil, ErrEmailExists
		}
		if isUniqueViolation(err, "") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("store: CreateUser failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	var user domain.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: GetUserByID failed to scan row: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC;`
	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("store: ListUsers failed to query users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, profile_image_url = $4, role = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING ` + userColumns + `;
	`
	var updated domain.User
	err := s.db.GetContext(ctx, &updated, query, user.Email, user.FirstName, user.LastName, user.ProfileImageURL, user.Role, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err, "email") {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("store: UpdateUser failed to scan row: %w", err)
	}
	return &updated, nil
}

// DeleteUser removes the user. Profiles, products, carts, orders and reviews cascade.
func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteUser failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteUser failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// --- SellerProfileStorer Implementation ---

const sellerProfileColumns = `id, user_id, mobile, address, pan_number, aadhar_number, qualification, description, company_name, created_at`

func (s *PostgresStore) CreateSellerProfile(ctx context.Context, profile *domain.SellerProfile) (*domain.SellerProfile, error) {
	query := `
		INSERT INTO seller_profiles
			(id, user_id, mobile, address, pan_number, aadhar_number, qualification, description, company_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + sellerProfileColumns + `;
	`
	var created domain.SellerProfile
	err := s.db.GetContext(ctx, &created, query,
		s.newID(), profile.UserID, profile.Mobile, profile.Address, profile.PanNumber,
		profile.AadharNumber, profile.Qualification, profile.Description, profile.CompanyName,
	)
	if err != nil {
		if isUniqueViolation(err, "user_id") {
			return nil, ErrSellerProfileExists
		}
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: CreateSellerProfile failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetSellerProfileByUserID(ctx context.Context, userID string) (*domain.SellerProfile, error) {
	query := `SELECT ` + sellerProfileColumns + ` FROM seller_profiles WHERE user_id = $1;`
	var profile domain.SellerProfile
	if err := s.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerProfileNotFound
		}
		return nil, fmt.Errorf("store: GetSellerProfileByUserID failed to scan row: %w", err)
	}
	return &profile, nil
}

// UpdateSellerProfile overwrites the profile owned by profile.UserID.
func (s *PostgresStore) UpdateSellerProfile(ctx context.Context, profile *domain.SellerProfile) (*domain.SellerProfile, error) {
	query := `
		UPDATE seller_profiles
		SET mobile = $1, address = $2, pan_number = $3, aadhar_number = $4,
			qualification = $5, description = $6, company_name = $7
		WHERE user_id = $8
		RETURNING ` + sellerProfileColumns + `;
	`
	var updated domain.SellerProfile
	err := s.db.GetContext(ctx, &updated, query,
		profile.Mobile, profile.Address, profile.PanNumber, profile.AadharNumber,
		profile.Qualification, profile.Description, profile.CompanyName, profile.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerProfileNotFound
		}
		return nil, fmt.Errorf("store: UpdateSellerProfile failed to scan row: %w", err)
	}
	return &updated, nil
}
