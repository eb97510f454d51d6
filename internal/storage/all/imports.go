// Package all wires all built-in storage backends into the storage registry.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register themselves
// with storage.Register. Importing it makes these kinds available:
//
//   - "sqlite"   (banksetl/internal/storage/sqlite)
//   - "postgres" (banksetl/internal/storage/postgres)
//   - "mysql"    (banksetl/internal/storage/mysql)
//   - "mssql"    (banksetl/internal/storage/mssql)
//
// Typical usage (in cmd/etl/main.go or the pipeline wiring):
//
//	import _ "banksetl/internal/storage/all"
//
//	store, err := storage.Open(ctx, storage.Config{Kind: "sqlite", DSN: "Banks.db"})
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "banksetl/internal/storage/mssql"
	_ "banksetl/internal/storage/mysql"
	_ "banksetl/internal/storage/postgres"
	_ "banksetl/internal/storage/sqlite"
)
