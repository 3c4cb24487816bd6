package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/domain"
)

const commissionColumns = `id, category_id, rate, is_default, created_at`

// --- CommissionStorer Implementation ---

// CreateCommissionSetting inserts a setting. A new default demotes the previous one in the same transaction.
func (s *PostgresStore) CreateCommissionSetting(ctx context.Context, setting *domain.CommissionSetting) (*domain.CommissionSetting, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateCommissionSetting failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if setting.IsDefault {
		if err := demoteDefault(ctx, tx, ""); err != nil {
			return nil, err
		}
	}

	var created domain.CommissionSetting
	err = tx.GetContext(ctx, &created, `
		INSERT INTO commission_settings (id, category_id, rate, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING `+commissionColumns+`;
	`, s.newID(), setting.CategoryID, setting.Rate, setting.IsDefault)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: CreateCommissionSetting failed to insert setting: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateCommissionSetting failed to commit: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) ListCommissionSettings(ctx context.Context) ([]domain.CommissionSetting, error) {
	query := `SELECT ` + commissionColumns + ` FROM commission_settings ORDER BY created_at DESC;`
	settings := []domain.CommissionSetting{}
	if err := s.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("store: ListCommissionSettings failed to query settings: %w", err)
	}
	return settings, nil
}

func (s *PostgresStore) GetCommissionSettingByID(ctx context.Context, id string) (*domain.CommissionSetting, error) {
	query := `SELECT ` + commissionColumns + ` FROM commission_settings WHERE id = $1;`
	var setting domain.CommissionSetting
	if err := s.db.GetContext(ctx, &setting, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("store: GetCommissionSettingByID failed to scan row: %w", err)
	}
	return &setting, nil
}

func (s *PostgresStore) UpdateCommissionSetting(ctx context.Context, setting *domain.CommissionSetting) (*domain.CommissionSetting, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateCommissionSetting failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if setting.IsDefault {
		if err := demoteDefault(ctx, tx, setting.ID); err != nil {
			return nil, err
		}
	}

	var updated domain.CommissionSetting
	err = tx.GetContext(ctx, &updated, `
		UPDATE commission_settings
		SET category_id = $1, rate = $2, is_default = $3
		WHERE id = $4
		RETURNING `+commissionColumns+`;
	`, setting.CategoryID, setting.Rate, setting.IsDefault, setting.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommissionNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: UpdateCommissionSetting failed to update setting: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateCommissionSetting failed to commit: %w", err)
	}
	return &updated, nil
}

// CommissionForCategory prefers the newest setting for the category and falls back to the default.
func (s *PostgresStore) CommissionForCategory(ctx context.Context, categoryID string) (*domain.CommissionSetting, error) {
	query := `
		SELECT ` + commissionColumns + `
		FROM commission_settings
		WHERE category_id = $1 OR is_default
		ORDER BY (category_id = $1) IS TRUE DESC, created_at DESC
		LIMIT 1;
	`
	var setting domain.CommissionSetting
	if err := s.db.GetContext(ctx, &setting, query, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("store: CommissionForCategory failed to scan row: %w", err)
	}
	return &setting, nil
}

func demoteDefault(ctx context.Context, tx *sqlx.Tx, exceptID string) error {
	_, err := tx.ExecContext(ctx, `UPDATE commission_settings SET is_default = FALSE WHERE is_default AND id <> $1;`, exceptID)
	if err != nil {
		return fmt.Errorf("store: failed to demote default commission setting: %w", err)
	}
	return nil
}
