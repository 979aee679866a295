package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"gilts_in_issue/internal/app"
	"gilts_in_issue/internal/fetch"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	dateArg := flag.String("date", "", "report date as DD/MM/YYYY; defaults to yesterday")
	flag.Parse()
	reportDate := resolveDate(*dateArg)

	log.Debug().
		Str("date", reportDate.Format(app.ReportDateLayout)).
		Msg("Starting gilts download")

	session, err := fetch.NewBrowserSession(app.Headless())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start browser session")
	}
	defer session.Close()

	fetcher := fetch.New(session, app.DownloadDir())
	path, err := fetcher.Fetch(context.Background(), app.ReportURL(), reportDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Download failed")
	}

	fmt.Printf("Downloaded %s\n", path)
}

// resolveDate returns the report date for the output filename. The report for
// a business day is published the following day, so yesterday is the default.
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
