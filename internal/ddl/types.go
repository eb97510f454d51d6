package ddl

// Logical column types. Dialects map them to concrete SQL types.
const (
	TypeReal    = "real"
	TypeInteger = "integer"
	TypeText    = "text"
)

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name, unquoted; quoting happens at render time
//   - Type: logical type (TypeReal, TypeInteger, TypeText)
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	Type     string
	Nullable bool
}

// TableDef holds a table name and an ordered list of columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// ColumnNames returns the column names in order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
