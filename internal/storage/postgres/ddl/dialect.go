// Package ddl holds the Postgres dialect.
//
// Identifiers are emitted unquoted so that Postgres folds them to lower case
// exactly as it folds the identifiers in hand-written queries; a table
// created as Largest_banks is then found by SELECT * FROM Largest_banks.
// Because nothing is quoted, identifiers are restricted to plain names.
package ddl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gddl "banksetl/internal/ddl"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dialect is the Postgres rendering of the generic ddl model.
var Dialect = gddl.Dialect{
	Name:        "postgres",
	QuoteIdent:  CheckIdent,
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	MapType:     MapType,
}

// CheckIdent returns id unchanged when it is a plain identifier.
func CheckIdent(id string) (string, error) {
	if !identRe.MatchString(id) {
		return "", fmt.Errorf("postgres ddl: %q is not a plain identifier", id)
	}
	return id, nil
}

// MapType normalizes a logical type into a Postgres SQL type.
//
//	"integer"/"int"/"bigint" -> BIGINT
//	"real"/"float"/"double"  -> DOUBLE PRECISION
//	everything else          -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInteger, "int", "bigint":
		return "BIGINT"
	case gddl.TypeReal, "float", "double":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
