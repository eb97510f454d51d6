// Package ddl holds the SQLite dialect: double-quoted identifiers, "?"
// placeholders and SQLite type affinities.
package ddl

import (
	"strings"

	gddl "banksetl/internal/ddl"
)

// Dialect is the SQLite rendering of the generic ddl model.
var Dialect = gddl.Dialect{
	Name:        "sqlite",
	QuoteIdent:  QuoteIdent,
	Placeholder: func(int) string { return "?" },
	MapType:     MapType,
}

// QuoteIdent wraps id in double quotes, doubling any embedded quote.
func QuoteIdent(id string) (string, error) {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`, nil
}

// MapType maps a logical type to a SQLite column type.
//
// SQLite uses dynamic typing, so the mapping prefers canonical affinities:
//   - integer -> INTEGER
//   - real    -> REAL
//   - others  -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInteger, "int", "bigint":
		return "INTEGER"
	case gddl.TypeReal, "float", "double":
		return "REAL"
	default:
		return "TEXT"
	}
}
