package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is an untyped grid as read from a source. Cells may be nil, strings,
// byte slices, booleans or any Go numeric type.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Build converts a raw table into a Dataset. The entity column becomes the
// row key; every other column that parses as numbers becomes a metric and
// the rest are recorded as skipped.
func Build(t Table, entityColumn string) (*Dataset, error) {
	if entityColumn == "" {
		entityColumn = DefaultEntityColumn
	}
	key := -1
	for i, c := range t.Columns {
		if c == entityColumn {
			key = i
			break
		}
	}
	if key < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoEntityColumn, entityColumn)
	}

	entities := make([]string, 0, len(t.Rows))
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r+1, len(row), len(t.Columns))
		}
		id, ok := cellString(row[key])
		if !ok || id == "" {
			return nil, fmt.Errorf("row %d has no %s value", r+1, entityColumn)
		}
		entities = append(entities, id)
	}

	var (
		columns []string
		values  [][]float64
		skipped []string
	)
	for c, name := range t.Columns {
		if c == key {
			continue
		}
		col, ok := numericColumn(t.Rows, c)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		columns = append(columns, name)
		values = append(values, col)
	}

	d, err := New(entityColumn, entities, columns, values)
	if err != nil {
		return nil, err
	}
	d.skipped = skipped
	return d, nil
}

func numericColumn(rows [][]any, c int) ([]float64, bool) {
	out := make([]float64, len(rows))
	for r, row := range rows {
		v, ok := cellFloat(row[c])
		if !ok {
			return nil, false
		}
		out[r] = v
	}
	return out, true
}

// cellFloat converts a cell to a float. Null-like cells become NaN.
func cellFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case []byte:
		return parseNumber(string(x))
	case string:
		return parseNumber(x)
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func cellString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}
