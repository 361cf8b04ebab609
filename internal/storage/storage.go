package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"volunteer-backend/internal/models"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrRoleExists           = errors.New("role already granted")
)

// AccountWriter is the set of writes issued during signup. All calls made
// through one AccountWriter commit or roll back together.
type AccountWriter interface {
	InsertUser(ctx context.Context, user *models.User) error
	InsertOrganization(ctx context.Context, org *models.Organization) error
	InsertRole(ctx context.Context, role models.Role) error
	InsertCredential(ctx context.Context, userID int64, hashedPassword string) error
}

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// RunInTx runs fn inside a single transaction. Any error returned by fn, or a
// panic, rolls the transaction back.
func (s *Storage) RunInTx(ctx context.Context, fn func(w AccountWriter) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&writer{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// writer issues account writes against a transaction.
type writer struct {
	q sqlx.ExtContext
}

func nullIfEmpty(value *string) interface{} {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
