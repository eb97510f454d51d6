// Package query runs read-only statements against the relational sink and
// prints their results.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Querier is implemented by *storage.Store.
type Querier interface {
	Query(ctx context.Context, statement string) (*sql.Rows, error)
}

// QueryError reports a statement that failed to execute or to fetch.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %q: %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Result holds every row a statement returned.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Run executes statement verbatim, fetches all rows and prints
//
//	Query: <statement>
//	<one tuple per row>
//	<blank line>
//
// to out. []byte values are converted to strings.
func Run(ctx context.Context, q Querier, statement string, out io.Writer) (*Result, error) {
	res, err := Fetch(ctx, q, statement)
	if err != nil {
		return nil, err
	}
	if err := Print(out, statement, res); err != nil {
		return nil, fmt.Errorf("query: print: %w", err)
	}
	return res, nil
}

// Fetch executes statement and collects the rows without printing.
func Fetch(ctx context.Context, q Querier, statement string) (*Result, error) {
	rows, err := q.Query(ctx, statement)
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}
	res := &Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Statement: statement, Err: err}
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}
	return res, nil
}

// Print writes res in the Run format.
func Print(w io.Writer, statement string, res *Result) error {
	var sb strings.Builder
	sb.WriteString("Query: ")
	sb.WriteString(statement)
	sb.WriteByte('\n')
	for _, row := range res.Rows {
		sb.WriteString(FormatRow(row))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatRow renders row as a tuple: ('JPMorgan Chase', 432.92). A single
// value keeps a trailing comma: ('x',).
func FormatRow(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = FormatValue(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatValue renders one value. Strings are single-quoted, floats use the
// shortest representation with ".0" for integral values, NULL is None.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return quote(x)
	case []byte:
		return quote(string(x))
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// quote renders s the way a Python repr would: backslashes and control
// whitespace escaped, double quotes when s holds a ' but no ".
func quote(s string) string {
	s = escaper.Replace(s)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// formatFloat switches to exponent form outside [1e-4, 1e16).
func formatFloat(f float64) string {
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) || math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
