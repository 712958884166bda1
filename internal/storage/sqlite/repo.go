// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. Full refreshes run a prepared INSERT inside a transaction;
// SQLite has no dedicated bulk-load API like Postgres COPY, but a single
// transaction keeps performance acceptable for moderate volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:fleximart.db?cache=shared"
//	"fleximart.db"
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Enable foreign keys by default; ignore error if driver doesn't support it.
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// Replace deletes the cascade tables child-first, deletes table, and inserts
// rows through a prepared statement, all inside one transaction.
func (r *Repository) Replace(ctx context.Context, table string, cascade []string, columns []string, rows [][]any) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range cascade {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+sqIdent(t)); err != nil {
			return 0, fmt.Errorf("sqlite: delete %s: %w", t, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+sqIdent(table)); err != nil {
		return 0, fmt.Errorf("sqlite: delete %s: %w", table, err)
	}

	var inserted int64
	if len(rows) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
		cols := make([]string, len(columns))
		for i, c := range columns {
			cols[i] = sqIdent(c)
		}
		stmtSQL := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			sqIdent(table), strings.Join(cols, ", "), placeholders,
		)
		stmt, err := tx.PrepareContext(ctx, stmtSQL)
		if err != nil {
			return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("sqlite: row length %d != columns length %d", len(row), len(columns))
			}
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return 0, fmt.Errorf("sqlite: insert into %s: %w", table, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL) using the
// underlying database/sql connection.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// sqIdent quotes a single identifier for SQLite.
func sqIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
