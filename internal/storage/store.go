// Package storage is the relational sink. It opens a database/sql connection
// for a registered backend kind and replaces a table with the contents of a
// dataset.Table in a single transaction.
//
// Backends live in subpackages and register themselves in init; import
// banksetl/internal/storage/all to enable every built-in backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"banksetl/internal/dataset"
	"banksetl/internal/ddl"
)

// Config selects a backend and its connection string.
type Config struct {
	Kind string
	DSN  string
}

// StoreError reports a failed storage operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Execer is the subset of *sql.DB used by Backend.Init.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// sqlOpen is a test hook.
var sqlOpen = sql.Open

// Store is an open connection to a relational database.
type Store struct {
	db      *sql.DB
	kind    string
	dialect ddl.Dialect
}

// Open connects to the database described by cfg and verifies the
// connection. The pool is limited to one connection; the pipeline is
// sequential and an in-memory SQLite database lives on a single connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	b, err := Lookup(cfg.Kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("%s DSN must not be empty", cfg.Kind)}
	}

	db, err := sqlOpen(b.Driver, cfg.DSN)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: "ping", Err: err}
	}
	if b.Init != nil {
		if err := b.Init(db); err != nil {
			_ = db.Close()
			return nil, &StoreError{Op: "init", Err: err}
		}
	}
	return &Store{db: db, kind: cfg.Kind, dialect: b.Dialect}, nil
}

// Kind returns the storage kind the store was opened with.
func (s *Store) Kind() string { return s.kind }

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// WriteTable replaces table name with the contents of t: the table is
// dropped if it exists, recreated from the inferred column types and filled
// row by row, all in one transaction. On error the transaction is rolled back.
func (s *Store) WriteTable(ctx context.Context, t *dataset.Table, name string) error {
	def, err := ddl.InferTableDef(name, t)
	if err != nil {
		return &StoreError{Op: "infer table", Err: err}
	}
	dropSQL, err := s.dialect.BuildDropTableSQL(def.Name)
	if err != nil {
		return &StoreError{Op: "build drop", Err: err}
	}
	createSQL, err := s.dialect.BuildCreateTableSQL(def)
	if err != nil {
		return &StoreError{Op: "build create", Err: err}
	}
	insertSQL, err := s.dialect.BuildInsertSQL(def.Name, def.ColumnNames())
	if err != nil {
		return &StoreError{Op: "build insert", Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Op: "begin", Err: err}
	}
	if err := fill(ctx, tx, t, dropSQL, createSQL, insertSQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "commit", Err: err}
	}
	return nil
}

func fill(ctx context.Context, tx *sql.Tx, t *dataset.Table, dropSQL, createSQL, insertSQL string) error {
	if _, err := tx.ExecContext(ctx, dropSQL); err != nil {
		return &StoreError{Op: "drop table", Err: err}
	}
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return &StoreError{Op: "create table", Err: err}
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return &StoreError{Op: "prepare insert", Err: err}
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		if _, err := stmt.ExecContext(ctx, t.Row(i)...); err != nil {
			return &StoreError{Op: fmt.Sprintf("insert row %d", i), Err: err}
		}
	}
	return nil
}

// Query runs statement verbatim. The caller must close the returned rows.
func (s *Store) Query(ctx context.Context, statement string) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	return rows, nil
}

// Close releases the connection. It is safe to call more than once.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return &StoreError{Op: "close", Err: err}
	}
	return nil
}
