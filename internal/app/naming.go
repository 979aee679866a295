package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Date layouts used across the pipeline. Report dates arrive as DD/MM/YYYY on the
// command line, download filenames carry DD-MM-YYYY, CSV filenames carry YYYYMMDD.
const (
	ReportDateLayout = "02/01/2006"
	fileDateLayout   = "02-01-2006"
	csvDateLayout    = "20060102"
)

const downloadPattern = "gilts_in_issue_*.xls*"

// DownloadFilename returns the deterministic name a downloaded spreadsheet is
// stored under, e.g. gilts_in_issue_19-03-2025.xls.
func DownloadFilename(date time.Time) string {
	return fmt.Sprintf("gilts_in_issue_%s.xls", date.Format(fileDateLayout))
}

// CSVFilename returns the dated name for a converted CSV file,
// e.g. gilts_in_issue_20250319.csv.
func CSVFilename(date time.Time) string {
	return fmt.Sprintf("gilts_in_issue_%s.csv", date.Format(csvDateLayout))
}

// ParseReportDate parses a DD/MM/YYYY date string from the command line.
func ParseReportDate(s string) (time.Time, error) {
	date, err := time.Parse(ReportDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected DD/MM/YYYY): %w", s, err)
	}
	return date, nil
}

// DateFromDownloadName recovers the report date embedded in a downloaded
// spreadsheet's filename. The second return is false when the name does not
// follow the gilts_in_issue_DD-MM-YYYY convention.
func DateFromDownloadName(path string) (time.Time, bool) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(name, "_")
	if idx < 0 {
		return time.Time{}, false
	}
	date, err := time.Parse(fileDateLayout, name[idx+1:])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// LatestDownload returns the most recently modified downloaded spreadsheet in
// dir, or an error when none exist.
func LatestDownload(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, downloadPattern))
	if err != nil {
		return "", fmt.Errorf("failed to scan download directory: %w", err)
	}
	var latest string
	var latestMod time.Time
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = match
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no downloaded spreadsheets found in %s", dir)
	}
	return latest, nil
}
