// Package gilts normalizes the DMO "Gilts in Issue" report into flat records
// and emits them as CSV.
package gilts

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one gilt row from the source spreadsheet.
type Record struct {
	ISIN     string
	Name     string
	Coupon   decimal.Decimal
	Maturity time.Time
	Amount   decimal.Decimal
}

// Summary reports what a conversion saw: data rows kept, non-data rows
// skipped beneath the header, and columns present in the header row.
type Summary struct {
	RowsRead    int
	RowsSkipped int
	Columns     int
}

// ErrHeaderNotFound is returned when no row with the expected column labels
// exists near the top of the sheet.
var ErrHeaderNotFound = errors.New("header row not found")

// ParseError reports a cell that could not be normalized. Parsing is strict:
// a malformed date or numeric fails the whole run rather than silently
// skipping or passing the raw string through.
type ParseError struct {
	Row    int // 1-based row number in the source sheet
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
