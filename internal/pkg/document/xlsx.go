package document

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes one sheet per table, in order, and returns the workbook bytes.
func WriteXLSX(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no table to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	keepDefault := false
	for i, t := range tables {
		name := sheetName(t.Title, i)
		keepDefault = keepDefault || name == defaultSheet
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, t, headerStyle); err != nil {
			return nil, err
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	if idx, err := f.GetSheetIndex(sheetName(tables[0].Title, 0)); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, t Table, headerStyle int) error {
	for col, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(name, colName, colName, 18)
	}
	if len(t.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		_ = f.SetCellStyle(name, "A1", last, headerStyle)
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}
	return nil
}

// sheetName keeps within the 31 character limit of sheet names.
func sheetName(title string, i int) string {
	if title == "" {
		if i == 0 {
			return defaultSheet
		}
		return fmt.Sprintf("Sheet%d", i+1)
	}
	if r := []rune(title); len(r) > 31 {
		return string(r[:31])
	}
	return title
}
