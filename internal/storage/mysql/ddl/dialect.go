// Package ddl holds the MySQL dialect: backtick-quoted identifiers, "?"
// placeholders and MySQL column types.
package ddl

import (
	"strings"

	gddl "banksetl/internal/ddl"
)

// Dialect is the MySQL rendering of the generic ddl model.
var Dialect = gddl.Dialect{
	Name:        "mysql",
	QuoteIdent:  QuoteIdent,
	Placeholder: func(int) string { return "?" },
	MapType:     MapType,
}

// QuoteIdent wraps id in backticks, doubling any embedded backtick.
func QuoteIdent(id string) (string, error) {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`", nil
}

// MapType maps a logical type to a MySQL column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInteger, "int", "bigint":
		return "BIGINT"
	case gddl.TypeReal, "float", "double":
		return "DOUBLE"
	default:
		return "TEXT"
	}
}
