package dataset

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads one sheet of a workbook into a Table. sheet selects by
// name, or by zero-based index when it parses as an integer; empty selects
// the first sheet. The first row supplies column headers; every following
// row is data, padded with empty cells to the header width.
func LoadExcel(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	name, err := pickSheet(sheets, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return NewTable(nil), nil
	}

	header := rows[0]
	cols := make([]Column, len(header))
	for i, h := range header {
		cols[i] = Column{Name: h, Cells: make([]string, 0, len(rows)-1)}
	}
	for _, r := range rows[1:] {
		for i := range cols {
			v := ""
			if i < len(r) {
				v = r[i]
			}
			cols[i].Cells = append(cols[i].Cells, v)
		}
	}
	return NewTable(cols), nil
}

func pickSheet(sheets []string, sel string) (string, error) {
	if sel == "" {
		return sheets[0], nil
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range (have %d sheets)", idx, len(sheets))
		}
		return sheets[idx], nil
	}
	for _, s := range sheets {
		if s == sel {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found", sel)
}
