package gilts_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gilts_in_issue/internal/gilts"

	"github.com/shopspring/decimal"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4", "4.0"},
		{"4.0", "4.0"},
		{"4.00", "4.0"}, // decimal values keep their source scale
		{"4.25", "4.25"},
		{"4.250", "4.25"},
		{"0.125", "0.125"},
		{"1.625", "1.625"},
	}
	for _, test := range tests {
		rate, err := decimal.NewFromString(test.in)
		if err != nil {
			t.Fatalf("Bad fixture %q: %v", test.in, err)
		}
		if got := gilts.FormatRate(rate); got != test.want {
			t.Errorf("FormatRate(%s) = %q, expected %q", test.in, got, test.want)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	records := []gilts.Record{
		{
			ISIN:     "GB00B24FF097",
			Name:     "Treasury Gilt 4% 2022",
			Coupon:   decimal.RequireFromString("4"),
			Maturity: time.Date(2022, time.September, 7, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("20000000000"),
		},
		{
			ISIN:     "GB00BL68HJ26",
			Name:     "Treasury Gilt 1.625% 2054",
			Coupon:   decimal.RequireFromString("1.625"),
			Maturity: time.Date(2054, time.October, 22, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("30406000000"),
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := gilts.WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to re-read output: %v", err)
	}

	want := [][]string{
		gilts.OutputHeader,
		{"GB00B24FF097", "Treasury Gilt 4% 2022", "4.0", "2022-09-07", "20000000000"},
		{"GB00BL68HJ26", "Treasury Gilt 1.625% 2054", "1.625", "2054-10-22", "30406000000"},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Round trip mismatch:\ngot  %v\nwant %v", lines, want)
	}
}

func TestWriteCSVNoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := gilts.WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(content) != "isin,name,coupon,maturity,amount_outstanding\n" {
		t.Errorf("Expected header-only output, got %q", string(content))
	}
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("Failed to seed stale file: %v", err)
	}

	if err := gilts.WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(content) == "stale" {
		t.Error("Expected stale file to be overwritten")
	}
}
