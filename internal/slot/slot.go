// Package slot stores the serialized ledger in a single named location.
package slot

import (
	"context"
	"fmt"
	"path/filepath"
)

// Slot is one named key/value location holding the whole ledger.
type Slot interface {
	// Load returns the stored bytes, or nil when the slot is empty.
	Load(ctx context.Context) ([]byte, error)
	// Save overwrites the slot.
	Save(ctx context.Context, data []byte) error
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
	// Location describes where the data lives, for messages and logs.
	Location() string
	Close() error
}

// Backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DatabaseFile is the sqlite file name inside the data directory.
const DatabaseFile = "treasury.db"

// Open returns the slot named name for backend, rooted at dataDir.
func Open(ctx context.Context, backend, dataDir, name string) (Slot, error) {
	switch backend {
	case BackendFile, "":
		return NewFileSlot(filepath.Join(dataDir, name+".json")), nil
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dataDir, DatabaseFile), name)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
