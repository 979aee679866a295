package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gilts_in_issue/internal/app"
	"gilts_in_issue/internal/tabular"

	"github.com/rs/zerolog/log"
)

// Fetcher downloads the report spreadsheet into a local directory under a
// deterministic dated name.
type Fetcher struct {
	session Session
	outDir  string
}

func New(session Session, outDir string) *Fetcher {
	return &Fetcher{session: session, outDir: outDir}
}

// Fetch runs the download sequence and returns the path of the saved
// spreadsheet. A prior file under the same name is overwritten; on failure no
// partial file is left in the output directory.
func (f *Fetcher) Fetch(ctx context.Context, url string, reportDate time.Time) (string, error) {
	log.Info().Str("url", url).Msg("Navigating to report page")
	if err := f.session.Navigate(ctx, url); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	dismissed, err := f.session.DismissConsent(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to dismiss cookie consent: %w", err)
	}
	if dismissed {
		log.Debug().Msg("Dismissed cookie consent overlay")
	} else {
		log.Debug().Msg("No cookie consent overlay present")
	}

	if err := f.session.TriggerExport(ctx); err != nil {
		return "", fmt.Errorf("failed to trigger export: %w", err)
	}

	log.Debug().Msg("Waiting for download to complete")
	download, err := f.session.AwaitDownload(ctx)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory %s: %w", f.outDir, err)
	}

	dest := filepath.Join(f.outDir, app.DownloadFilename(reportDate))
	tmp := dest + ".part"
	if err := download.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to save download: %w", err)
	}

	if err := f.verifyContent(tmp, url); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move download into place: %w", err)
	}

	log.Info().
		Str("path", dest).
		Str("suggested_filename", download.SuggestedFilename()).
		Msg("Saved report spreadsheet")
	return dest, nil
}

// verifyContent rejects downloads that are not actually workbooks. The site
// serves an HTML interstitial instead of the spreadsheet when bot protection
// triggers.
func (f *Fetcher) verifyContent(path, url string) error {
	kind, err := tabular.Sniff(path)
	if err != nil {
		return err
	}
	switch kind {
	case tabular.KindXLS, tabular.KindXLSX:
		return nil
	case tabular.KindHTML:
		return fmt.Errorf("%s served an HTML page instead of a spreadsheet: %w", url, ErrNotASpreadsheet)
	default:
		return fmt.Errorf("unrecognized download content from %s: %w", url, ErrNotASpreadsheet)
	}
}
