package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrSnapshotNotFound is returned by Load when nothing has been saved yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store kinds accepted by OpenStore
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// StoreKinds lists the supported store kinds
var StoreKinds = []string{StoreFile, StoreSQLite, StorePostgres}

// SnapshotStore defines the interface for persisting snapshot documents
type SnapshotStore interface {
	// Save persists an encoded snapshot document
	Save(doc []byte) error

	// Load returns the most recently saved document
	Load() ([]byte, error)

	// Exists reports whether a document has been saved
	Exists() bool

	// Close releases the store's resources
	Close() error
}

// SnapshotRecord describes one saved snapshot in a store that keeps history
type SnapshotRecord struct {
	ID      int64     `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Robots  int       `json:"robots"`
	Tiles   int       `json:"tiles"`
	Size    int       `json:"size"`
}

// OpenStore creates the store of the given kind. path is used by the file and
// sqlite stores, dsn by the postgres store.
func OpenStore(kind, path, dsn string) (SnapshotStore, error) {
	switch kind {
	case StoreFile, "":
		return NewFilePersistence(path)
	case StoreSQLite:
		return NewSQLitePersistence(path)
	case StorePostgres:
		return NewPostgresPersistence(dsn)
	default:
		return nil, fmt.Errorf("unknown snapshot store %q (valid: %v)", kind, StoreKinds)
	}
}
