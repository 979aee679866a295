package gilts

import (
	"gilts_in_issue/internal/tabular"

	"github.com/rs/zerolog/log"
)

// Convert reads the spreadsheet at inPath, normalizes its records, and writes
// them as CSV to outPath. When any stage fails no output file is written.
func Convert(inPath, outPath string) (Summary, error) {
	sheet, err := tabular.Open(inPath)
	if err != nil {
		return Summary{}, err
	}

	records, summary, err := Extract(sheet)
	if err != nil {
		return Summary{}, err
	}

	if err := WriteCSV(outPath, records); err != nil {
		return Summary{}, err
	}

	log.Info().
		Str("input", inPath).
		Str("output", outPath).
		Int("rows", summary.RowsRead).
		Int("skipped", summary.RowsSkipped).
		Msg("Conversion complete")

	return summary, nil
}
