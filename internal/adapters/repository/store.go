// Package repository defines the persisted game store interface and its
// backends. The store mirrors the browser-local key-value contract: the value
// is the full array of game records, read and overwritten whole.
package repository

import (
	"context"

	"github.com/respiview/respiview/internal/domain/model"
)

// Store provides read/write access to the persisted game history.
type Store interface {
	// All returns every stored game record in insertion order.
	All(ctx context.Context) ([]model.GameRecord, error)

	// Get returns the record with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.GameRecord, error)

	// Save upserts a record by its natural key. A colliding id overwrites
	// the prior record; the save is idempotent.
	Save(ctx context.Context, rec model.GameRecord) error

	// Delete removes the record with the given id.
	// Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Clear removes every stored record.
	Clear(ctx context.Context) error

	// Export renders the full store as a JSON array string.
	Export(ctx context.Context) (string, error)

	// Import replaces the store contents from a JSON array string. The
	// top-level value must be an array; anything else is rejected with
	// ErrInvalidImport. Returns the number of imported records.
	Import(ctx context.Context, data string) (int, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
