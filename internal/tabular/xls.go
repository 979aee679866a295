package tabular

import (
	"fmt"

	"github.com/shakinm/xlsReader/xls"
)

// openXLS reads the first sheet of a legacy BIFF workbook, the format the DMO
// Excel export actually produces.
func openXLS(path string) (*Sheet, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook %s: %w", path, err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("workbook %s has no readable sheet: %w", path, err)
	}

	rows := make([][]string, 0, sheet.GetNumberRows())
	for i := 0; i < sheet.GetNumberRows(); i++ {
		// Sparse workbooks omit cell records for separator rows; the reader
		// hands back an empty row for those, which keeps ordering intact.
		row, err := sheet.GetRow(i)
		if err != nil {
			rows = append(rows, nil)
			continue
		}
		cols := row.GetCols()
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = col.GetString()
		}
		rows = append(rows, cells)
	}

	return &Sheet{Name: sheet.GetName(), Rows: rows}, nil
}
