package gilts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gilts_in_issue/internal/tabular"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// The header row sits within the first 15 rows of the report, beneath the
// title and total-amount rows.
const headerScanLimit = 15

// Maturity-band labels the report interleaves with data rows for visual grouping.
var groupLabels = map[string]bool{
	"Ultra-Short": true,
	"Short":       true,
	"Medium":      true,
	"Long":        true,
}

type columnSet struct {
	isin     int
	name     int
	coupon   int
	maturity int
	amount   int
}

// Extract normalizes the sheet into gilt records, preserving source row
// order. Rows above the header, blank separator rows, maturity-band labels,
// and section headings (rows with no ISIN) are skipped and counted.
func Extract(sheet *tabular.Sheet) ([]Record, Summary, error) {
	headerIdx, cols, err := findHeader(sheet.Rows)
	if err != nil {
		return nil, Summary{}, err
	}
	log.Debug().
		Int("row", headerIdx+1).
		Msg("Found header row")

	summary := Summary{Columns: len(sheet.Rows[headerIdx])}
	var records []Record
	for i := headerIdx + 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if !isDataRow(row, cols) {
			summary.RowsSkipped++
			continue
		}
		record, err := parseRecord(row, cols, i+1)
		if err != nil {
			return nil, Summary{}, err
		}
		records = append(records, record)
		summary.RowsRead++
	}

	log.Debug().
		Int("rows_read", summary.RowsRead).
		Int("rows_skipped", summary.RowsSkipped).
		Int("columns", summary.Columns).
		Msg("Finished extracting records")

	return records, summary, nil
}

func findHeader(rows [][]string) (int, columnSet, error) {
	limit := headerScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if cols, ok := matchHeader(rows[i]); ok {
			return i, cols, nil
		}
	}
	return 0, columnSet{}, ErrHeaderNotFound
}

// matchHeader locates the five normalized columns in a candidate header row.
// Labels are matched loosely so both "Redemption Date" and "Maturity Date"
// style reports are accepted.
func matchHeader(row []string) (columnSet, bool) {
	cols := columnSet{isin: -1, name: -1, coupon: -1, maturity: -1, amount: -1}
	for j, raw := range row {
		label := strings.ToLower(strings.TrimSpace(raw))
		if label == "" {
			continue
		}
		switch {
		case cols.isin < 0 && strings.Contains(label, "isin"):
			cols.isin = j
		case cols.maturity < 0 && (strings.Contains(label, "redemption") || strings.Contains(label, "maturity")):
			cols.maturity = j
		case cols.coupon < 0 && strings.Contains(label, "coupon"):
			cols.coupon = j
		case cols.amount < 0 && (strings.Contains(label, "amount") || strings.Contains(label, "nominal")):
			cols.amount = j
		case cols.name < 0 && (strings.Contains(label, "name") || strings.Contains(label, "gilt")):
			cols.name = j
		}
	}
	ok := cols.isin >= 0 && cols.name >= 0 && cols.coupon >= 0 && cols.maturity >= 0 && cols.amount >= 0
	return cols, ok
}

// isDataRow filters out blank separator rows, maturity-band labels, and
// section headings or notes. A section heading can occupy the same column as
// the ISIN, so a data row must also carry a maturity or amount value.
func isDataRow(row []string, cols columnSet) bool {
	blank := true
	for _, raw := range row {
		if strings.TrimSpace(raw) != "" {
			blank = false
			break
		}
	}
	if blank {
		return false
	}
	if groupLabels[cell(row, 0)] {
		return false
	}
	if cell(row, cols.isin) == "" {
		return false
	}
	return cell(row, cols.maturity) != "" || cell(row, cols.amount) != ""
}

func parseRecord(row []string, cols columnSet, rowNum int) (Record, error) {
	coupon, err := parseRate(cell(row, cols.coupon))
	if err != nil {
		return Record{}, &ParseError{Row: rowNum, Column: "coupon", Err: err}
	}
	maturity, err := parseDate(cell(row, cols.maturity))
	if err != nil {
		return Record{}, &ParseError{Row: rowNum, Column: "maturity", Err: err}
	}
	amount, err := parseAmount(cell(row, cols.amount))
	if err != nil {
		return Record{}, &ParseError{Row: rowNum, Column: "amount_outstanding", Err: err}
	}

	return Record{
		ISIN:     cell(row, cols.isin),
		Name:     cell(row, cols.name),
		Coupon:   coupon,
		Maturity: maturity,
		Amount:   amount,
	}, nil
}

// cell safely reads a trimmed cell; ragged rows read as empty past their end.
func cell(row []string, index int) string {
	if index >= 0 && index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"02 January 2006",
	"2006-01-02",
}

// excelEpoch is day zero of Excel's serial date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Window of years a serial-encoded maturity may land in. The dataset has no
// maturity before the 1990s and none past the middle of the next century, so
// a serial resolving outside it is a mistyped cell, not a date.
const (
	serialYearMin = 1990
	serialYearMax = 2150
)

// parseDate accepts the day/month/year forms the report uses, plus raw Excel
// serial numbers as legacy workbooks sometimes surface date cells.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, s); err == nil {
			return date, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		date := excelEpoch.AddDate(0, 0, int(serial))
		if date.Year() >= serialYearMin && date.Year() <= serialYearMax {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseRate parses a coupon rate, tolerating a percentage suffix.
func parseRate(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty coupon cell")
	}
	rate, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unrecognized coupon %q", s)
	}
	return rate, nil
}

// parseAmount parses a nominal amount, tolerating thousands separators and a
// currency symbol.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "£", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount cell")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unrecognized amount %q", s)
	}
	return amount, nil
}
