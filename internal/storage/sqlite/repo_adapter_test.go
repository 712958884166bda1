package sqlite

import (
	"context"
	"testing"

	"fleximart/internal/storage"
)

// TestFactoryRegistered asserts the init registration wires DSN through and
// that Close delegates to the cleanup function.
func TestFactoryRegistered(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotDSN string
	closed := false
	newRepository = func(ctx context.Context, dsn string) (*Repository, func(), error) {
		gotDSN = dsn
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "file:test.db"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotDSN != "file:test.db" {
		t.Fatalf("dsn = %q", gotDSN)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call cleanup")
	}
}
