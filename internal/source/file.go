package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

// File reads a dataset from disk. The format follows the extension: .csv,
// .json, .parquet or .xlsx.
type File struct {
	path  string
	sheet string
}

// NewFile returns a file source. sheet selects the worksheet of an .xlsx
// workbook and falls back to the first sheet when empty or absent.
func NewFile(path, sheet string) *File {
	return &File{path: path, sheet: sheet}
}

func (f *File) Name() string { return "file" }

func (f *File) Identity() string {
	return "file:" + f.path + ":" + statStamp(f.path)
}

func (f *File) Load(_ context.Context) (dataset.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".csv", "":
		return readCSV(f.path)
	case ".json":
		data, err := os.ReadFile(f.path)
		if err != nil {
			return dataset.Table{}, fmt.Errorf("read %s: %w", f.path, err)
		}
		return dataset.ParseJSON(data)
	case ".parquet":
		return readParquet(f.path)
	case ".xlsx":
		return readWorkbook(f.path, f.sheet)
	default:
		return dataset.Table{}, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func readCSV(path string) (dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return dataset.ParseCSV(file)
}

func readParquet(path string) (dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return dataset.Table{}, fmt.Errorf("failed to stat Parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return dataset.Table{}, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	fields := pf.Schema().Fields()
	t := dataset.Table{Columns: make([]string, len(fields))}
	for i, field := range fields {
		t.Columns[i] = field.Name()
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()
	for {
		row := make(map[string]any)
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return dataset.Table{}, fmt.Errorf("read parquet row %d: %w", len(t.Rows), err)
		}
		cells := make([]any, len(t.Columns))
		for i, name := range t.Columns {
			cells[i] = row[name]
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func readWorkbook(path, sheet string) (dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataset.Table{}, errors.New("workbook has no sheets")
	}
	if sheet == "" || !contains(sheets, sheet) {
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataset.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	t := dataset.Table{Columns: rows[0]}
	for _, r := range rows[1:] {
		// Trailing empty cells are omitted by the reader.
		cells := make([]any, len(t.Columns))
		for i := range cells {
			if i < len(r) {
				cells[i] = r[i]
			} else {
				cells[i] = ""
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
