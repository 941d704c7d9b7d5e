// Package persist stores task collections durably. Two backends are
// provided: a JSONL file store with one file per collection, and a
// SQLite store. Both load and save whole collections; the in-memory
// store remains the source of truth while the program runs.
package persist

import (
	"errors"

	"daybook/task"
)

// Storage loads and saves a complete collection snapshot.
type Storage interface {
	Load() (task.Collections, error)
	Save(task.Collections) error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendJSONL  Backend = "jsonl"
	BackendSQLite Backend = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open constructs the storage backend named by backend, rooted at dir.
func Open(backend Backend, dir string) (Storage, error) {
	switch backend {
	case BackendJSONL, "":
		return NewFileStore(dir), nil
	case BackendSQLite:
		return OpenSQLite(dir)
	}
	return nil, ErrUnknownBackend
}
