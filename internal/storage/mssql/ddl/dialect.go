// Package ddl holds the SQL Server dialect: bracket-quoted identifiers,
// "@pN" placeholders and T-SQL column types.
package ddl

import (
	"strconv"
	"strings"

	gddl "banksetl/internal/ddl"
)

// Dialect is the SQL Server rendering of the generic ddl model.
// DROP TABLE IF EXISTS needs SQL Server 2016 or later.
var Dialect = gddl.Dialect{
	Name:        "mssql",
	QuoteIdent:  QuoteIdent,
	Placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
	MapType:     MapType,
}

// QuoteIdent wraps id in brackets, escaping closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) (string, error) {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]", nil
}

// MapType maps a logical type to a SQL Server column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInteger, "int", "bigint":
		return "BIGINT"
	case gddl.TypeReal, "float", "double":
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}
