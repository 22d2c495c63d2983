package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agenda_backend/pkg/utils"
)

var (
	// ErrStore is returned for any failed store operation: network, auth, constraint
	// violation or a malformed response.
	ErrStore = errors.New("store operation failed")

	// ErrNotFound is returned, wrapped in ErrStore, when a record id does not exist.
	ErrNotFound = errors.New("requested record not found")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// storeFailure logs and wraps a failed operation.
func storeFailure(op string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %v", ErrStore, op, err)
	utils.LogError(err, "Store operation failed", map[string]interface{}{"op": op})
	return wrapped
}

// notFound logs and wraps a missing record.
func notFound(op, id string) error {
	wrapped := fmt.Errorf("%w: %s %s: %w", ErrStore, op, id, ErrNotFound)
	utils.LogError(wrapped, "Store operation failed", map[string]interface{}{"op": op, "id": id})
	return wrapped
}
