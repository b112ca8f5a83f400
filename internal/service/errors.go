package service

import (
	"errors"
	"fmt"

	"shoplist/internal/store"
)

// ErrImportFailed wraps a parse or validation failure in ImportData. The
// original cause is attached in the chain.
var ErrImportFailed = errors.New("import failed")

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, store.ErrNotFound)
}
