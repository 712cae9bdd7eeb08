// Package gormstore implements the catalog and ledger on the application database.
package gormstore

import (
	"database/sql/driver"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/talkincode/stockledger/internal/store"
	"gorm.io/gorm"
)

// Store is the GORM implementation of store.Catalog and store.Ledger
type Store struct {
	db *gorm.DB
}

var (
	_ store.Catalog = (*Store)(nil)
	_ store.Ledger  = (*Store)(nil)
)

// New creates a GORM-based catalog and ledger
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) isPostgres() bool {
	return strings.EqualFold(s.db.Name(), "postgres")
}

// likeClause builds a case-insensitive OR match over columns.
func (s *Store) likeClause(columns []string, q string) (string, []interface{}) {
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		if s.isPostgres() {
			parts = append(parts, col+" ILIKE ?")
			args = append(args, "%"+q+"%")
		} else {
			parts = append(parts, "LOWER("+col+") LIKE ?")
			args = append(args, "%"+strings.ToLower(q)+"%")
		}
	}
	return strings.Join(parts, " OR "), args
}

// classify maps a gorm/driver error to a store error class.
func classify(op string, err error) error {
	if err == nil || store.Classified(err) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.Wrap(store.ErrNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated),
		isUniqueViolation(err), isForeignKeyViolation(err):
		return store.Wrap(store.ErrConstraint, op, err)
	case isPermissionDenied(err):
		return store.Wrap(store.ErrPermission, op, err)
	case store.IsTransient(err), errors.Is(err, driver.ErrBadConn):
		return store.Wrap(store.ErrUnavailable, op, err)
	}
	// anything else still failed on the far side of the connection
	return store.Wrap(store.ErrUnavailable, op, errors.Wrap(err, "database"))
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505" || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503" || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isPermissionDenied(err error) bool {
	return pgCode(err) == "42501"
}
