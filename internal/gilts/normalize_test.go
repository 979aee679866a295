package gilts_test

import (
	"errors"
	"testing"

	"gilts_in_issue/internal/gilts"
	"gilts_in_issue/internal/tabular"
)

var reportHeader = []string{"ISIN Code", "Gilt Name", "Coupon", "Redemption Date", "Total Amount in Issue"}

func sheetOf(rows ...[]string) *tabular.Sheet {
	return &tabular.Sheet{Name: "D1A", Rows: rows}
}

func TestExtractSampleRow(t *testing.T) {
	sheet := sheetOf(
		[]string{"Gilts in Issue as at 7 September 2022"},
		nil,
		reportHeader,
		[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", "4%", "07/09/2022", "20,000,000,000"},
	)

	records, summary, err := gilts.Extract(sheet)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.ISIN != "GB00B24FF097" {
		t.Errorf("Expected ISIN 'GB00B24FF097', got %q", record.ISIN)
	}
	if record.Name != "Treasury Gilt 4% 2022" {
		t.Errorf("Expected name 'Treasury Gilt 4%% 2022', got %q", record.Name)
	}
	if got := gilts.FormatRate(record.Coupon); got != "4.0" {
		t.Errorf("Expected coupon '4.0', got %q", got)
	}
	if got := record.Maturity.Format("2006-01-02"); got != "2022-09-07" {
		t.Errorf("Expected maturity '2022-09-07', got %q", got)
	}
	if got := gilts.FormatAmount(record.Amount); got != "20000000000" {
		t.Errorf("Expected amount '20000000000', got %q", got)
	}

	if summary.RowsRead != 1 {
		t.Errorf("Expected 1 row read, got %d", summary.RowsRead)
	}
	if summary.Columns != len(reportHeader) {
		t.Errorf("Expected %d columns, got %d", len(reportHeader), summary.Columns)
	}
}

func TestExtractPreservesDataRows(t *testing.T) {
	sheet := sheetOf(
		[]string{"Gilts in Issue"},
		reportHeader,
		[]string{"Conventional Gilts"},
		[]string{"Ultra-Short"},
		[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", "4%", "07/09/2022", "20,000,000,000"},
		nil,
		[]string{"GB00BL68HJ26", "Treasury Gilt 1.625% 2054", "1.625%", "22/10/2054", "30,406,000,000"},
		[]string{"Index-linked Gilts"},
		[]string{"GB00B3Y1JG82", "Index-linked Treasury Gilt 0.125% 2029", "0.125%", "22/03/2029", "18,741,000,000"},
	)

	records, summary, err := gilts.Extract(sheet)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// Source order must be preserved
	wantISINs := []string{"GB00B24FF097", "GB00BL68HJ26", "GB00B3Y1JG82"}
	for i, want := range wantISINs {
		if records[i].ISIN != want {
			t.Errorf("Record %d: expected ISIN %s, got %s", i, want, records[i].ISIN)
		}
	}

	if summary.RowsRead != 3 {
		t.Errorf("Expected 3 rows read, got %d", summary.RowsRead)
	}
	// Section heading, group label, blank row, and "Conventional Gilts" heading
	if summary.RowsSkipped != 4 {
		t.Errorf("Expected 4 rows skipped, got %d", summary.RowsSkipped)
	}
}

func TestExtractHeaderOnly(t *testing.T) {
	records, summary, err := gilts.Extract(sheetOf(reportHeader))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected 0 records, got %d", len(records))
	}
	if summary.RowsRead != 0 || summary.RowsSkipped != 0 {
		t.Errorf("Expected empty summary counts, got %+v", summary)
	}
}

func TestExtractHeaderNotFound(t *testing.T) {
	sheet := sheetOf(
		[]string{"Some unrelated export"},
		[]string{"Column A", "Column B"},
	)
	_, _, err := gilts.Extract(sheet)
	if !errors.Is(err, gilts.ErrHeaderNotFound) {
		t.Errorf("Expected ErrHeaderNotFound, got %v", err)
	}
}

func TestExtractMalformedDateFails(t *testing.T) {
	sheet := sheetOf(
		reportHeader,
		[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", "4%", "not-a-date", "20,000,000,000"},
	)

	_, _, err := gilts.Extract(sheet)
	var parseErr *gilts.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if parseErr.Row != 2 {
		t.Errorf("Expected failure at row 2, got %d", parseErr.Row)
	}
	if parseErr.Column != "maturity" {
		t.Errorf("Expected failure in maturity column, got %s", parseErr.Column)
	}
}

func TestExtractImplausibleSerialDateFails(t *testing.T) {
	// Numeric cells only count as serial dates when they land inside the
	// plausible maturity window; a stray number like "123" is a typo and
	// must fail the run rather than resolve to a 1900-era date.
	for _, cell := range []string{"123", "-44811", "999999"} {
		sheet := sheetOf(
			reportHeader,
			[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", "4%", cell, "20,000,000,000"},
		)

		_, _, err := gilts.Extract(sheet)
		var parseErr *gilts.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Maturity %q: expected ParseError, got %v", cell, err)
			continue
		}
		if parseErr.Row != 2 {
			t.Errorf("Maturity %q: expected failure at row 2, got %d", cell, parseErr.Row)
		}
		if parseErr.Column != "maturity" {
			t.Errorf("Maturity %q: expected failure in maturity column, got %s", cell, parseErr.Column)
		}
	}
}

func TestExtractMalformedAmountFails(t *testing.T) {
	sheet := sheetOf(
		reportHeader,
		[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", "4%", "07/09/2022", "n/a"},
	)

	_, _, err := gilts.Extract(sheet)
	var parseErr *gilts.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if parseErr.Column != "amount_outstanding" {
		t.Errorf("Expected failure in amount_outstanding column, got %s", parseErr.Column)
	}
}

func TestExtractCouponForms(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{"4%", "4.0"},
		{"4.00%", "4.0"}, // some report vintages pad the rate to two places
		{"1.625%", "1.625"},
		{"0.125", "0.125"},
	}

	for _, test := range tests {
		sheet := sheetOf(
			reportHeader,
			[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", test.cell, "07/09/2022", "100"},
		)
		records, _, err := gilts.Extract(sheet)
		if err != nil {
			t.Errorf("Extract failed for coupon %q: %v", test.cell, err)
			continue
		}
		if got := gilts.FormatRate(records[0].Coupon); got != test.want {
			t.Errorf("Coupon %q: expected %s, got %s", test.cell, test.want, got)
		}
	}
}

func TestExtractDateForms(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{"07/09/2022", "2022-09-07"},
		{"7/9/2022", "2022-09-07"},
		{"07-09-2022", "2022-09-07"},
		{"7 Sep 2022", "2022-09-07"},
		{"7 September 2022", "2022-09-07"},
		{"2022-09-07", "2022-09-07"},
		{"44811", "2022-09-07"}, // Excel serial date from a legacy workbook
	}

	for _, test := range tests {
		sheet := sheetOf(
			reportHeader,
			[]string{"GB00B24FF097", "Treasury Gilt 4% 2022", "4%", test.cell, "100"},
		)
		records, _, err := gilts.Extract(sheet)
		if err != nil {
			t.Errorf("Extract failed for date %q: %v", test.cell, err)
			continue
		}
		if got := records[0].Maturity.Format("2006-01-02"); got != test.want {
			t.Errorf("Date %q: expected %s, got %s", test.cell, test.want, got)
		}
	}
}
