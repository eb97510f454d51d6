package ddl

import (
	"fmt"
	"strings"

	"banksetl/internal/dataset"
)

// InferTableDef derives a table definition from the values held in t. A
// column is TypeReal when every value is a float, TypeInteger when every
// value is an integer, and TypeText otherwise. Columns with no rows default
// to TypeText. Every column is nullable.
func InferTableDef(name string, t *dataset.Table) (TableDef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TableDef{}, fmt.Errorf("ddl: table name must not be empty")
	}
	cols := t.Columns()
	if len(cols) == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s has no columns", name)
	}

	def := TableDef{Name: name, Columns: make([]ColumnDef, len(cols))}
	for j, c := range cols {
		def.Columns[j] = ColumnDef{Name: c, Type: inferColumn(t, j), Nullable: true}
	}
	return def, nil
}

func inferColumn(t *dataset.Table, j int) string {
	if t.Len() == 0 {
		return TypeText
	}
	allFloat, allInt := true, true
	for i := 0; i < t.Len(); i++ {
		switch t.Row(i)[j].(type) {
		case float64, float32:
			allInt = false
		case int, int32, int64:
			allFloat = false
		default:
			return TypeText
		}
	}
	switch {
	case allFloat:
		return TypeReal
	case allInt:
		return TypeInteger
	default:
		// mixed ints and floats
		return TypeReal
	}
}
