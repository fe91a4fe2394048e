package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// KindFromFilename resolves the dataset kind from a file name. Every keyword is
// tested; a name containing keywords of two different kinds is rejected.
func KindFromFilename(name string) (Kind, error) {
	base := filepath.Base(name)
	found := KindUnknown
	for _, k := range Kinds() {
		if !strings.Contains(base, k.Keyword()) {
			continue
		}
		if found != KindUnknown {
			return KindUnknown, fmt.Errorf("%w: '%s' (%s, %s)", ErrAmbiguousKind, base, found, k)
		}
		found = k
	}
	return found, nil
}

// ParseTable reads a simulator CSV export. Column names and cells are
// whitespace-trimmed and rows are stable-sorted by run index when the file
// carries one.
func ParseTable(name string, r io.Reader) (*Table, error) {
	kind, err := KindFromFilename(name)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // ragged rows are reported, not fatal

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = trimCell(header[i])
	}
	if len(header) == 1 && header[0] == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}

	t := newTable(name, kind, header)

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV data (line %d): %w", line, err)
		}
		row = trimRow(row)
		if isBlankRow(row) {
			continue
		}
		if len(row) != len(header) {
			t.ParseErrors = append(t.ParseErrors, fmt.Sprintf("Warning: line %d has %d fields, expected %d.", line, len(row), len(header)))
		}
		t.rows = append(t.rows, row)
	}

	t.sortByRunIndex()
	return t, nil
}

// sortByRunIndex orders rows by the integer run index. Rows whose index cannot
// be read keep their relative order after all valid rows.
func (t *Table) sortByRunIndex() {
	col, ok := t.index[RunIndexColumn]
	if !ok {
		return
	}
	keys := make([]float64, len(t.rows))
	bad := 0
	for i, row := range t.rows {
		v, err := parseNumber(cell(row, col))
		if err != nil || math.IsNaN(v) {
			bad++
			v = math.Inf(1)
		}
		keys[i] = v
	}
	if bad > 0 {
		t.ParseErrors = append(t.ParseErrors, fmt.Sprintf("Warning: %d rows without a valid '%s', sorted last.", bad, RunIndexColumn))
	}
	order := make([]int, len(t.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] < keys[order[j]]
	})
	sorted := make([][]string, len(t.rows))
	for i, idx := range order {
		sorted[i] = t.rows[idx]
	}
	t.rows = sorted
}

// Strings returns the raw trimmed cells of a column.
func (t *Table) Strings(col string) ([]string, error) {
	idx, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("%w '%s' in %s", ErrMissingColumn, col, t.Name)
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = cell(row, idx)
	}
	return out, nil
}

// Floats returns a numeric column. Blank cells and "nan" become NaN.
func (t *Table) Floats(col string) ([]float64, error) {
	raw, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := parseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("%w in column '%s' row %d of %s: %q", ErrInvalidValue, col, i+1, t.Name, s)
		}
		out[i] = v
	}
	return out, nil
}

// Ints returns an integer column. Missing or fractional values are errors.
func (t *Table) Ints(col string) ([]int, error) {
	vals, err := t.Floats(col)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w in column '%s' row %d of %s: not an integer", ErrInvalidValue, col, i+1, t.Name)
		}
		out[i] = int(v)
	}
	return out, nil
}

func parseNumber(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func trimCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = trimCell(c)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
