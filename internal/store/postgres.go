package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/domain"
)

// Predefined errors for store operations. Each wraps a domain error kind.
var (
	ErrUserNotFound          = domain.NewError(domain.ErrNotFound, "store: user not found")
	ErrUserExists            = domain.NewError(domain.ErrConflict, "store: user already exists")
	ErrEmailExists           = domain.NewError(domain.ErrConflict, "store: email already in use")
	ErrSellerProfileNotFound = domain.NewError(domain.ErrNotFound, "store: seller profile not found")
	ErrSellerProfileExists   = domain.NewError(domain.ErrConflict, "store: seller profile already exists")
	ErrCategoryNotFound      = domain.NewError(domain.ErrNotFound, "store: category not found")
	ErrCategoryNameExists    = domain.NewError(domain.ErrConflict, "store: category name already exists")
	ErrCategoryInUse         = domain.NewError(domain.ErrConflict, "store: category still has products")
	ErrProductNotFound       = domain.NewError(domain.ErrNotFound, "store: product not found")
	ErrCartItemNotFound      = domain.NewError(domain.ErrNotFound, "store: cart item not found")
	ErrOrderNotFound         = domain.NewError(domain.ErrNotFound, "store: order not found")
	ErrCommissionNotFound    = domain.NewError(domain.ErrNotFound, "store: commission setting not found")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

//go:embed schema.sql
var schema string

// PostgresStore implements every storer interface using PostgreSQL.
type PostgresStore struct {
	db    *sqlx.DB
	newID func() string
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: sqlx.NewDb(db, "postgres"), newID: uuid.NewString}
}

// Migrate creates any missing tables and indexes. It is safe to run on every start.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: Migrate failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

func isUniqueViolation(err error, column string) bool {
	pqErr, ok := asPQError(err)
	if !ok || pqErr.Code != pqUniqueViolation {
		return false
	}
	return column == "" || strings.Contains(pqErr.Constraint, column) || strings.Contains(pqErr.Detail, "Key ("+column)
}

func isForeignKeyViolation(err error) bool {
	pqErr, ok := asPQError(err)
	return ok && pqErr.Code == pqForeignKeyViolation
}

// rollback is deferred by every transaction; it is a no-op after Commit.
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}
