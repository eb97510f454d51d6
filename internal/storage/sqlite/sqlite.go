// Package sqlite registers the "sqlite" storage backend, backed by the pure-Go
// modernc.org/sqlite driver. The DSN is a file path such as "Banks.db" or
// ":memory:".
package sqlite

import (
	"banksetl/internal/storage"
	sqliteddl "banksetl/internal/storage/sqlite/ddl"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Kind is the storage kind this package registers.
const Kind = "sqlite"

func init() {
	storage.Register(Kind, storage.Backend{
		Driver:  "sqlite",
		Dialect: sqliteddl.Dialect,
		Init: func(db storage.Execer) error {
			// Ignore the error if the driver doesn't support it.
			_, _ = db.Exec("PRAGMA foreign_keys = ON;")
			return nil
		},
	})
}
