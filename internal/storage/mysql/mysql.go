// Package mysql registers the "mysql" storage backend using
// github.com/go-sql-driver/mysql. The DSN uses the driver's format, e.g.
// "user:pass@tcp(127.0.0.1:3306)/banks".
package mysql

import (
	"banksetl/internal/storage"
	myddl "banksetl/internal/storage/mysql/ddl"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver
)

// Kind is the storage kind this package registers.
const Kind = "mysql"

func init() {
	storage.Register(Kind, storage.Backend{
		Driver:  "mysql",
		Dialect: myddl.Dialect,
	})
}
