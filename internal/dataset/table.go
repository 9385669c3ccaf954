package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Column is a named, ordered sequence of cell values. Cells are the raw
// string renderings from the workbook; typed views are produced on demand
// with coercion-with-skip.
type Column struct {
	Name  string
	Cells []string
}

// Table is an immutable columnar view over one sheet. All columns have the
// same length.
type Table struct {
	cols  []Column
	index map[string]int
}

// NewTable builds a table from columns. Duplicate names keep the first
// occurrence in the index; lookups by name resolve to it.
func NewTable(cols []Column) *Table {
	t := &Table{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, ok := t.index[c.Name]; !ok {
			t.index[c.Name] = i
		}
	}
	return t
}

// Headers returns the column names in sheet order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Cells, true
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// parseNumber coerces a cell to a float. Blank or non-numeric cells are
// skipped by callers, never reported as errors.
func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dateLayouts covers ISO dates with and without a time component, slash and
// dot variants, and the short forms excelize renders for date-formatted
// cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"2006.1.2",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"01/02/2006 15:04:05",
}

// parseDate coerces a cell to a date. Unparseable cells are skipped by
// callers.
func parseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
