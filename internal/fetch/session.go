// Package fetch downloads the DMO report spreadsheet by driving a real
// browser session against the report page.
package fetch

import (
	"context"
	"errors"
)

var (
	// ErrExportControlNotFound means no Excel export control exists on the page.
	ErrExportControlNotFound = errors.New("export control not found on page")
	// ErrDownloadTimeout means the browser never reported download completion.
	ErrDownloadTimeout = errors.New("download did not complete in time")
	// ErrNotASpreadsheet means the download's content is not a workbook,
	// typically a bot-protection HTML page served in its place.
	ErrNotASpreadsheet = errors.New("downloaded file is not a spreadsheet")
)

// Download is a completed browser download, still under its temporary name.
type Download interface {
	SuggestedFilename() string
	SaveAs(path string) error
}

// Session drives the report page. The production implementation wraps a real
// browser; tests substitute a scripted fake so no selectors need re-deriving.
type Session interface {
	Navigate(ctx context.Context, url string) error

	// DismissConsent accepts the cookie-consent overlay when present and
	// reports whether it did. The overlay being absent is not an error.
	DismissConsent(ctx context.Context) (bool, error)

	// TriggerExport invokes the on-page Excel export control, starting a
	// browser-native download.
	TriggerExport(ctx context.Context) error

	// AwaitDownload blocks until the download started by TriggerExport
	// completes, bounded by the session's wait budget.
	AwaitDownload(ctx context.Context) (Download, error)

	Close() error
}
