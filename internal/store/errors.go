package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy surfaced to the service layer. Callers distinguish a miss
// from a fault with errors.Is; nothing here is retried automatically.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storageErr maps a driver error onto the taxonomy, keeping the original
// error in the chain.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	default:
		return fmt.Errorf("%s: %w", op, errors.Join(ErrStorageUnavailable, err))
	}
}
