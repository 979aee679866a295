// Package tabular reads the first worksheet of a spreadsheet file into plain
// string rows, hiding which on-disk format (legacy BIFF .xls or OOXML .xlsx)
// backs it.
package tabular

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sheet is the first worksheet of a spreadsheet, loaded wholesale. Rows hold
// raw cell text in source order; ragged rows are preserved as-is.
type Sheet struct {
	Name string
	Rows [][]string
}

// ErrUnsupportedFormat is returned when the file content is neither a legacy
// nor a modern spreadsheet.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Open loads the first sheet of the spreadsheet at path. The format is
// sniffed from content rather than extension, so a .xls file hiding an HTML
// error page is rejected instead of parsed.
func Open(path string) (*Sheet, error) {
	kind, err := Sniff(path)
	if err != nil {
		return nil, err
	}

	var sheet *Sheet
	switch kind {
	case KindXLS:
		sheet, err = openXLS(path)
	case KindXLSX:
		sheet, err = openXLSX(path)
	case KindHTML:
		return nil, fmt.Errorf("%s contains an HTML page, not a spreadsheet: %w", path, ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Str("sheet", sheet.Name).
		Int("rows", len(sheet.Rows)).
		Msg("Loaded spreadsheet")
	return sheet, nil
}
