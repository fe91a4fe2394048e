package parser

import (
	"errors"
	"fmt"
)

// RunIndexColumn identifies the simulation run a row belongs to.
const RunIndexColumn = "Numero da execucao"

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidValue  = errors.New("invalid value")
	ErrAmbiguousKind = errors.New("file name matches more than one dataset kind")
)

// Kind is the dataset kind of an uploaded file, derived from its name.
type Kind int

const (
	KindUnknown Kind = iota
	KindDroneCollision
	KindGeneralSimulation
	KindGeneralDrone
)

// Kinds lists every known dataset kind in display order.
func Kinds() []Kind {
	return []Kind{KindDroneCollision, KindGeneralSimulation, KindGeneralDrone}
}

// Keyword is the file name fragment that identifies the kind.
func (k Kind) Keyword() string {
	switch k {
	case KindDroneCollision:
		return "droneCollisionData"
	case KindGeneralSimulation:
		return "generalSimulationData"
	case KindGeneralDrone:
		return "generalDroneData"
	case KindUnknown:
		return ""
	}
	return ""
}

func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return k.Keyword()
}

// Table is one uploaded CSV with trimmed column names and rows ordered by run index.
type Table struct {
	Name        string
	Kind        Kind
	header      []string
	index       map[string]int
	rows        [][]string
	ParseErrors []string // Non-fatal problems found while reading
}

func newTable(name string, kind Kind, header []string) *Table {
	t := &Table{
		Name:        name,
		Kind:        kind,
		header:      header,
		index:       make(map[string]int, len(header)),
		ParseErrors: make([]string, 0),
	}
	for i, col := range header {
		if _, dup := t.index[col]; dup {
			t.ParseErrors = append(t.ParseErrors, fmt.Sprintf("Warning: duplicate column '%s', using the first occurrence.", col))
			continue
		}
		t.index[col] = i
	}
	return t
}

// NewTable builds a table from an already split header and rows.
// Cells are whitespace-trimmed; rows are not reordered.
func NewTable(name string, header []string, rows [][]string) *Table {
	kind, _ := KindFromFilename(name)
	trimmed := make([]string, len(header))
	for i, h := range header {
		trimmed[i] = trimCell(h)
	}
	t := newTable(name, kind, trimmed)
	for _, row := range rows {
		t.rows = append(t.rows, trimRow(row))
	}
	return t
}

// Columns returns the trimmed header.
func (t *Table) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the trimmed header contains col.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}
