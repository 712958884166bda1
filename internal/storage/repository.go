// Package storage contains the storage-agnostic contracts for persisting
// canonical datasets. Concrete backends (postgres, mysql, sqlite, mssql)
// register themselves with the factory at init time; callers select a
// backend by kind and stay otherwise backend-agnostic.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config carries everything a backend needs to open a connection.
type Config struct {
	// Kind selects the backend: "postgres", "mysql", "sqlite", "mssql".
	Kind string
	// DSN is the backend-specific connection string.
	DSN string
}

// Repository is a connection to one relational target. Implementations must
// be safe for sequential reuse across multiple Replace calls.
type Repository interface {
	// Exec runs an arbitrary statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Replace performs a full refresh of table: inside one transaction it
	// deletes the cascade tables child-first, deletes the target table, and
	// bulk-inserts rows (aligned to columns order). It returns the number of
	// rows inserted. The single transaction closes the crash-consistency gap
	// a bare delete-then-insert sequence would leave.
	Replace(ctx context.Context, table string, cascade []string, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection or pool.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. Called
// from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository of the configured kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (known: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
