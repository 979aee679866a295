package gilts

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OutputHeader is the normalized column set of the emitted CSV.
var OutputHeader = []string{"isin", "name", "coupon", "maturity", "amount_outstanding"}

const isoDateLayout = "2006-01-02"

// FormatRate renders a coupon rate with an explicit decimal point and no
// trailing zeros, so source cells "4", "4.0" and "4.00" all print as 4.0.
// Decimal values keep the scale they were parsed with, so the string form
// has to be canonicalized here.
func FormatRate(rate decimal.Decimal) string {
	s := rate.String()
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// FormatAmount renders a nominal amount without separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.String()
}

// WriteCSV writes records to path. Output lands under a temporary name first
// and is renamed into place only after a clean flush, so a failed run leaves
// no partial file behind.
func WriteCSV(path string, records []Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".gilts_in_issue_*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(OutputHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		line := []string{
			record.ISIN,
			record.Name,
			FormatRate(record.Coupon),
			record.Maturity.Format(isoDateLayout),
			FormatAmount(record.Amount),
		}
		if err := writer.Write(line); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary output file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set output file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("records", len(records)).
		Msg("Wrote CSV output")
	return nil
}
