// Package mysql implements a MySQL-backed storage.Repository using
// database/sql. Full refreshes run inside one transaction using chunked
// multi-row INSERTs, which keeps round-trips low without exceeding the
// server's max_allowed_packet on larger loads.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// insertChunk caps the number of rows per multi-value INSERT.
const insertChunk = 500

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a MySQL connection pool and returns a Repository plus
// a Close function for cleanup. DSN follows go-sql-driver syntax, e.g.
// "user:pass@tcp(localhost:3306)/fleximart?parseTime=true".
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// Replace deletes the cascade tables child-first, deletes table, and inserts
// rows in chunks, all inside one transaction.
func (r *Repository) Replace(ctx context.Context, table string, cascade []string, columns []string, rows [][]any) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range cascade {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+myIdent(t)); err != nil {
			return 0, fmt.Errorf("mysql: delete %s: %w", t, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+myIdent(table)); err != nil {
		return 0, fmt.Errorf("mysql: delete %s: %w", table, err)
	}

	var inserted int64
	for start := 0; start < len(rows); start += insertChunk {
		end := start + insertChunk
		if end > len(rows) {
			end = len(rows)
		}
		n, err := r.insertChunk(ctx, tx, table, columns, rows[start:end])
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return inserted, nil
}

func (r *Repository) insertChunk(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	one := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	values := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: row length %d != columns length %d", len(row), len(columns))
		}
		values[i] = one
		args = append(args, row...)
	}

	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = myIdent(c)
	}
	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		myIdent(table), strings.Join(cols, ", "), strings.Join(values, ", "),
	)
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mysql: insert into %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Exec executes an arbitrary SQL statement, typically DDL.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// myIdent quotes a single identifier for MySQL.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
