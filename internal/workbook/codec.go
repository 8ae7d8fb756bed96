// Package workbook encodes and decodes Excel workbooks into tabular
// sheets. It is the only place excelize is touched: everything above it
// works on sheet.Table values.
package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// Sheet is one named table inside a workbook. Order matters: the slice
// order is the sheet order and must survive a round trip.
type Sheet struct {
	Name  string
	Table *sheet.Table
}

// Parse decodes workbook bytes into named tables. The first row of each
// sheet is its header; header order becomes the table's column order.
func Parse(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}

		table := &sheet.Table{}
		if len(rows) > 0 {
			table.Columns = append([]string(nil), rows[0]...)
			for _, cells := range rows[1:] {
				row := make(sheet.Row, len(table.Columns))
				for i, col := range table.Columns {
					if i < len(cells) {
						row[col] = cells[i]
					} else {
						// excelize trims trailing empty cells per row.
						row[col] = ""
					}
				}
				table.Append(row)
			}
		}

		sheets = append(sheets, Sheet{Name: name, Table: table})
	}

	return sheets, nil
}

// Serialize encodes named tables back into workbook bytes, writing the
// full header row of every sheet so empty trailing columns are never
// dropped.
func Serialize(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("serializing workbook: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, fmt.Errorf("naming sheet %q: %w", s.Name, err)
			}
		} else {
			if _, err := f.NewSheet(s.Name); err != nil {
				return nil, fmt.Errorf("creating sheet %q: %w", s.Name, err)
			}
		}

		if err := writeTable(f, s.Name, s.Table); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FindSheet returns the table for the named sheet.
func FindSheet(sheets []Sheet, name string) (*sheet.Table, bool) {
	for _, s := range sheets {
		if s.Name == name {
			return s.Table, true
		}
	}
	return nil, false
}

// ReplaceSheet swaps the table of the named sheet in place, keeping the
// sheet order and every other sheet untouched.
func ReplaceSheet(sheets []Sheet, name string, table *sheet.Table) ([]Sheet, error) {
	for i, s := range sheets {
		if s.Name == name {
			sheets[i].Table = table
			return sheets, nil
		}
	}
	return nil, fmt.Errorf("workbook has no sheet %q", name)
}

func writeTable(f *excelize.File, name string, t *sheet.Table) error {
	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("writing header of %q: %w", name, err)
	}

	for rowIdx, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return fmt.Errorf("addressing row %d of %q: %w", rowIdx+2, name, err)
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d of %q: %w", rowIdx+2, name, err)
		}
	}

	return nil
}
