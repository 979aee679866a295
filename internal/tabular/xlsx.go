package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// openXLSX reads the first sheet of an OOXML workbook.
func openXLSX(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx workbook %s: %w", path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets: %w", path, ErrUnsupportedFormat)
	}

	rows, err := f.GetRows(names[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q from %s: %w", names[0], path, err)
	}

	return &Sheet{Name: names[0], Rows: rows}, nil
}
