package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"gilts_in_issue/internal/app"
	"gilts_in_issue/internal/fetch"
	"gilts_in_issue/internal/gilts"

	"github.com/rs/zerolog/log"
)

// pipeline runs the full download-and-convert sequence in one invocation.
func main() {
	app.SetupEnvironment()

	dateArg := flag.String("date", "", "report date as DD/MM/YYYY; defaults to yesterday")
	flag.Parse()
	reportDate := resolveDate(*dateArg)

	session, err := fetch.NewBrowserSession(app.Headless())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start browser session")
	}
	defer session.Close()

	fetcher := fetch.New(session, app.DownloadDir())
	xlsPath, err := fetcher.Fetch(context.Background(), app.ReportURL(), reportDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Download failed")
	}
	fmt.Printf("Downloaded %s\n", xlsPath)

	outPath := filepath.Join(app.CSVDir(), app.CSVFilename(reportDate))
	summary, err := gilts.Convert(xlsPath, outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	fmt.Printf("Rows read: %d\n", summary.RowsRead)
	fmt.Printf("Rows skipped: %d\n", summary.RowsSkipped)
	fmt.Printf("Columns detected: %d\n", summary.Columns)
	fmt.Printf("Wrote %s\n", outPath)
}

func resolveDate(arg string) time.Time {
	if arg == "" {
		return time.Now().AddDate(0, 0, -1)
	}
	date, err := app.ParseReportDate(arg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -date value")
	}
	return date
}
