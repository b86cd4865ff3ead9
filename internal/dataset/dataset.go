// Package dataset holds the immutable entity-by-metric score table and the
// parsers that build it from tabular sources.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultEntityColumn = "Faculty"

var (
	ErrEntityNotFound     = errors.New("entity not found")
	ErrEmptyDataset       = errors.New("dataset has no rows")
	ErrMissingColumn      = errors.New("dataset is missing metric columns")
	ErrDuplicateEntity    = errors.New("duplicate entity")
	ErrNoEntityColumn     = errors.New("entity column not found")
	ErrUnknownMetric      = errors.New("unknown metric column")
	errRaggedColumnValues = errors.New("column length does not match entity count")
)

// Dataset is read-only once built and safe to share between goroutines.
// Missing cells are stored as NaN.
type Dataset struct {
	Version  uuid.UUID
	Source   string
	LoadedAt time.Time

	entityColumn string
	entities     []string
	columns      []string
	values       [][]float64 // values[column][row]
	skipped      []string

	rowIndex map[string]int
	colIndex map[string]int
}

// New builds a dataset from per-column values. values[i] belongs to
// columns[i] and must hold one value per entity.
func New(entityColumn string, entities, columns []string, values [][]float64) (*Dataset, error) {
	if entityColumn == "" {
		entityColumn = DefaultEntityColumn
	}
	if len(columns) != len(values) {
		return nil, fmt.Errorf("%d columns but %d value slices", len(columns), len(values))
	}

	d := &Dataset{
		Version:      uuid.New(),
		LoadedAt:     time.Now().UTC(),
		entityColumn: entityColumn,
		entities:     append([]string(nil), entities...),
		columns:      append([]string(nil), columns...),
		values:       make([][]float64, len(values)),
		rowIndex:     make(map[string]int, len(entities)),
		colIndex:     make(map[string]int, len(columns)),
	}
	for i, e := range d.entities {
		if _, dup := d.rowIndex[e]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, e)
		}
		d.rowIndex[e] = i
	}
	for i, c := range d.columns {
		if _, dup := d.colIndex[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		if len(values[i]) != len(entities) {
			return nil, fmt.Errorf("%w: %q has %d values for %d entities", errRaggedColumnValues, c, len(values[i]), len(entities))
		}
		d.colIndex[c] = i
		d.values[i] = append([]float64(nil), values[i]...)
	}
	return d, nil
}

func (d *Dataset) EntityColumn() string { return d.entityColumn }

// Len is the row count.
func (d *Dataset) Len() int { return len(d.entities) }

// Entities returns entity identifiers in row order.
func (d *Dataset) Entities() []string { return append([]string(nil), d.entities...) }

// Columns returns the numeric column names in source order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Skipped lists source columns dropped because they were not numeric.
func (d *Dataset) Skipped() []string { return append([]string(nil), d.skipped...) }

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.colIndex[name]
	return ok
}

func (d *Dataset) HasEntity(entity string) bool {
	_, ok := d.rowIndex[entity]
	return ok
}

// Row returns the row position of an entity.
func (d *Dataset) Row(entity string) (int, error) {
	i, ok := d.rowIndex[entity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrEntityNotFound, entity)
	}
	return i, nil
}

// Column returns a copy of a column's values in row order.
func (d *Dataset) Column(name string) ([]float64, error) {
	i, ok := d.colIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return append([]float64(nil), d.values[i]...), nil
}

func (d *Dataset) Value(entity, column string) (float64, error) {
	row, err := d.Row(entity)
	if err != nil {
		return 0, err
	}
	return d.At(row, column)
}

// At reads a cell by row position.
func (d *Dataset) At(row int, column string) (float64, error) {
	i, ok := d.colIndex[column]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, column)
	}
	if row < 0 || row >= len(d.entities) {
		return 0, fmt.Errorf("row %d out of range", row)
	}
	return d.values[i][row], nil
}

// RowValues returns every numeric cell of a row in column order.
func (d *Dataset) RowValues(row int) []float64 {
	out := make([]float64, len(d.columns))
	for i := range d.columns {
		out[i] = d.values[i][row]
	}
	return out
}

// Validate checks that every listed metric exists as a numeric column.
func (d *Dataset) Validate(metrics []string) error {
	var missing []string
	for _, m := range metrics {
		if !d.HasColumn(m) {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Valid reports how many non-NaN cells a column holds.
func (d *Dataset) Valid(column string) int {
	i, ok := d.colIndex[column]
	if !ok {
		return 0
	}
	n := 0
	for _, v := range d.values[i] {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
