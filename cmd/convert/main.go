package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"gilts_in_issue/internal/app"
	"gilts_in_issue/internal/gilts"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()
	flag.Parse()

	inPath := flag.Arg(0)
	if inPath == "" {
		var err error
		inPath, err = app.LatestDownload(app.DownloadDir())
		if err != nil {
			log.Fatal().Err(err).Msg("No spreadsheet to convert")
		}
		log.Info().Str("path", inPath).Msg("Using most recent download")
	}

	date := resolveDate(inPath, flag.Arg(1))
	outPath := filepath.Join(app.CSVDir(), app.CSVFilename(date))

	summary, err := gilts.Convert(inPath, outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	fmt.Printf("Rows read: %d\n", summary.RowsRead)
	fmt.Printf("Rows skipped: %d\n", summary.RowsSkipped)
	fmt.Printf("Columns detected: %d\n", summary.Columns)
	fmt.Printf("Wrote %s\n", outPath)
}

// resolveDate labels the output file: an explicit date argument wins, then
// the date embedded in the input filename, then today.
func resolveDate(inPath, arg string) time.Time {
	if arg != "" {
		date, err := app.ParseReportDate(arg)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid date argument")
		}
		return date
	}
	if date, ok := app.DateFromDownloadName(inPath); ok {
		return date
	}
	return time.Now()
}
