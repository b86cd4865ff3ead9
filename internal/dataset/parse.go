package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// ParseCSV reads a header row followed by data rows.
func ParseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, errors.New("csv has no header")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := Table{Columns: header, Rows: make([][]any, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ParseJSON accepts the layouts pandas writes for a data frame:
//
//	records: [{"Faculty": "Arts", "Encode": 0.1}, ...]
//	columns: {"Faculty": {"0": "Arts"}, "Encode": {"0": 0.1}}
//	split:   {"columns": [...], "index": [...], "data": [[...], ...]}
//
// Column order follows the document.
func ParseJSON(data []byte) (Table, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Table{}, errors.New("empty json document")
	}
	switch data[0] {
	case '[':
		return parseRecords(data)
	case '{':
		if _, dt, _, err := jsonparser.Get(data, "data"); err == nil && dt == jsonparser.Array {
			if _, ct, _, err := jsonparser.Get(data, "columns"); err == nil && ct == jsonparser.Array {
				return parseSplit(data)
			}
		}
		return parseColumns(data)
	default:
		return Table{}, errors.New("json document must be an array or object")
	}
}

func parseRecords(data []byte) (Table, error) {
	var (
		t       Table
		index   = map[string]int{}
		records []map[string]any
		perr    error
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
		if perr != nil {
			return
		}
		if err != nil {
			perr = err
			return
		}
		if dt != jsonparser.Object {
			perr = fmt.Errorf("record %d is not an object", len(records)+1)
			return
		}
		rec := map[string]any{}
		perr = jsonparser.ObjectEach(value, func(k, v []byte, vt jsonparser.ValueType, _ int) error {
			key, err := jsonparser.ParseString(k)
			if err != nil {
				return err
			}
			cell, err := jsonValue(v, vt)
			if err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			if _, ok := index[key]; !ok {
				index[key] = len(t.Columns)
				t.Columns = append(t.Columns, key)
			}
			rec[key] = cell
			return nil
		})
		records = append(records, rec)
	})
	if err != nil {
		return Table{}, fmt.Errorf("parse json records: %w", err)
	}
	if perr != nil {
		return Table{}, fmt.Errorf("parse json records: %w", perr)
	}

	for _, rec := range records {
		row := make([]any, len(t.Columns))
		for k, v := range rec {
			row[index[k]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseColumns(data []byte) (Table, error) {
	var (
		t        Table
		cols     []map[string]any
		rowOrder []string
		seenRow  = map[string]bool{}
	)
	err := jsonparser.ObjectEach(data, func(k, v []byte, vt jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(k)
		if err != nil {
			return err
		}
		if vt != jsonparser.Object {
			return fmt.Errorf("column %q is not an object of index to value", name)
		}
		cells := map[string]any{}
		err = jsonparser.ObjectEach(v, func(ik, iv []byte, it jsonparser.ValueType, _ int) error {
			idx, err := jsonparser.ParseString(ik)
			if err != nil {
				return err
			}
			cell, err := jsonValue(iv, it)
			if err != nil {
				return fmt.Errorf("column %q index %q: %w", name, idx, err)
			}
			if !seenRow[idx] {
				seenRow[idx] = true
				rowOrder = append(rowOrder, idx)
			}
			cells[idx] = cell
			return nil
		})
		if err != nil {
			return err
		}
		t.Columns = append(t.Columns, name)
		cols = append(cols, cells)
		return nil
	})
	if err != nil {
		return Table{}, fmt.Errorf("parse json columns: %w", err)
	}

	sortIndex(rowOrder)
	for _, idx := range rowOrder {
		row := make([]any, len(cols))
		for c, cells := range cols {
			row[c] = cells[idx]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseSplit(data []byte) (Table, error) {
	var t Table
	_, err := jsonparser.ArrayEach(data, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
		if s, err := jsonparser.ParseString(v); err == nil && vt == jsonparser.String {
			t.Columns = append(t.Columns, s)
		}
	}, "columns")
	if err != nil {
		return Table{}, fmt.Errorf("parse json columns list: %w", err)
	}

	var perr error
	_, err = jsonparser.ArrayEach(data, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
		if perr != nil {
			return
		}
		if vt != jsonparser.Array {
			perr = fmt.Errorf("data row %d is not an array", len(t.Rows)+1)
			return
		}
		var row []any
		_, err := jsonparser.ArrayEach(v, func(cv []byte, ct jsonparser.ValueType, _ int, _ error) {
			cell, err := jsonValue(cv, ct)
			if err != nil && perr == nil {
				perr = err
			}
			row = append(row, cell)
		})
		if err != nil && perr == nil {
			perr = err
		}
		t.Rows = append(t.Rows, row)
	}, "data")
	if err != nil {
		return Table{}, fmt.Errorf("parse json data: %w", err)
	}
	if perr != nil {
		return Table{}, fmt.Errorf("parse json data: %w", perr)
	}
	return t, nil
}

func jsonValue(v []byte, vt jsonparser.ValueType) (any, error) {
	switch vt {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Number:
		return jsonparser.ParseFloat(v)
	case jsonparser.String:
		return jsonparser.ParseString(v)
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(v)
	default:
		return nil, fmt.Errorf("unsupported json value %s", vt)
	}
}

// sortIndex orders pandas index labels numerically when every label is an
// integer and leaves them in document order otherwise.
func sortIndex(idx []string) {
	nums := make(map[string]int, len(idx))
	for _, s := range idx {
		n, err := strconv.Atoi(s)
		if err != nil {
			return
		}
		nums[s] = n
	}
	sort.SliceStable(idx, func(i, j int) bool { return nums[idx[i]] < nums[idx[j]] })
}
