// Package ddl defines a small, backend-agnostic model for SQL DDL and renders
// the three statements a full table replace needs: DROP TABLE IF EXISTS,
// CREATE TABLE and a parameterised INSERT.
//
// Dialect differences (identifier quoting, placeholder syntax, type names)
// are supplied by a Dialect value. Backend packages such as
// internal/storage/sqlite/ddl provide their own.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect describes how a database spells identifiers, placeholders and
// types.
type Dialect struct {
	// Name is a short label used in error messages, e.g. "sqlite".
	Name string
	// QuoteIdent renders an identifier or rejects it.
	QuoteIdent func(id string) (string, error)
	// Placeholder renders the n-th bind parameter (1-based).
	Placeholder func(n int) string
	// MapType maps a logical type to a column type.
	MapType func(logical string) string
}

func (d Dialect) prefix() string {
	if d.Name == "" {
		return "ddl"
	}
	return d.Name + " ddl"
}

func (d Dialect) quote(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s: identifier must not be empty", d.prefix())
	}
	if d.QuoteIdent == nil {
		return id, nil
	}
	return d.QuoteIdent(id)
}

func (d Dialect) mapType(logical string) string {
	logical = strings.TrimSpace(logical)
	if d.MapType == nil {
		return strings.ToUpper(logical)
	}
	return d.MapType(logical)
}

func (d Dialect) placeholder(n int) string {
	if d.Placeholder == nil {
		return "?"
	}
	return d.Placeholder(n)
}

// BuildCreateTableSQL renders a CREATE TABLE statement from t.
//
// A column is rendered as:
//
//	<Name> <Type> [NOT NULL]
//
// and the whole statement as:
//
//	CREATE TABLE <Name> (
//	  <col1-def>,
//	  <col2-def>
//	);
func (d Dialect) BuildCreateTableSQL(t TableDef) (string, error) {
	table, err := d.quote(t.Name)
	if err != nil {
		return "", err
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", d.prefix())
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", d.prefix(), t.Name)
		}
		if strings.TrimSpace(c.Type) == "" {
			return "", fmt.Errorf("%s: column %s missing type", d.prefix(), c.Name)
		}
		name, err := d.quote(c.Name)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(d.mapType(c.Type))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", table, strings.Join(cols, ",\n  ")), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for name.
func (d Dialect) BuildDropTableSQL(name string) (string, error) {
	table, err := d.quote(name)
	if err != nil {
		return "", err
	}
	return "DROP TABLE IF EXISTS " + table, nil
}

// BuildInsertSQL renders a single-row INSERT with one placeholder per column.
func (d Dialect) BuildInsertSQL(name string, columns []string) (string, error) {
	table, err := d.quote(name)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("%s: insert into %s needs at least one column", d.prefix(), name)
	}
	cols := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		if cols[i], err = d.quote(c); err != nil {
			return "", err
		}
		marks[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", ")), nil
}
