package storage

import (
	"context"
	"fmt"
	"sync"
)

// Bootstrapper creates the warehouse schema on a freshly opened repository.
// Statements must be idempotent (CREATE TABLE IF NOT EXISTS or the dialect
// equivalent) so repeated runs against the same database are safe.
type Bootstrapper func(ctx context.Context, repo Repository) error

var (
	ddlMu     sync.RWMutex
	ddlByKind = map[string]Bootstrapper{}
)

// RegisterDDL installs the schema bootstrapper for a backend kind.
func RegisterDDL(kind string, b Bootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlByKind[kind] = b
}

// EnsureSchema runs the registered bootstrapper for kind against repo.
func EnsureSchema(ctx context.Context, kind string, repo Repository) error {
	ddlMu.RLock()
	b, ok := ddlByKind[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL registered for kind %q", kind)
	}
	if err := b(ctx, repo); err != nil {
		return fmt.Errorf("storage: bootstrap %s schema: %w", kind, err)
	}
	return nil
}

// ExecAll is a helper for bootstrappers: run statements in order, stop on
// the first failure.
func ExecAll(ctx context.Context, repo Repository, stmts []string) error {
	for _, s := range stmts {
		if err := repo.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
