// Package store persists one settings document per user.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// ErrNotFound is returned by Load when the user has no stored document.
var ErrNotFound = errors.New("settings document not found")

// Record is a stored settings document. Document holds the raw JSON as
// written by the caller; the store never interprets it.
type Record struct {
	UserID    string
	Document  []byte
	Revision  string
	UpdatedAt time.Time
}

// Store loads and saves settings documents keyed by user id.
type Store interface {
	Load(ctx context.Context, userID string) (Record, error)
	Save(ctx context.Context, userID string, document []byte) (Record, error)
	Delete(ctx context.Context, userID string) error
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
	Close() error
}

// Open returns the store selected by driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case constants.StoreDriverMemory:
		return NewMemory(), nil
	case constants.StoreDriverSQLite, "":
		if path == "" {
			path = constants.DefaultStorePath
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}
