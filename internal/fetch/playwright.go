package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gilts_in_issue/internal/poll"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Page settles within a minute; the export download must complete within 30s.
const navigationTimeoutMs = 60_000

var downloadWait = poll.Config{
	BaseDelay: 250 * time.Millisecond,
	MaxDelay:  2 * time.Second,
	Budget:    30 * time.Second,
}

// Selectors for the consent overlay's accept control, most specific first.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	`button:has-text("Accept All")`,
	`button:has-text("Accept Cookies")`,
	`button:has-text("Accept")`,
	`button:has-text("I Accept")`,
	`button:has-text("Agree")`,
	".cookie-accept-button",
	".accept-cookies",
}

// Selectors for the Excel export control.
var exportSelectors = []string{
	`button:has-text("Excel")`,
	`input[value*="Excel"]`,
	`a:has-text("Excel")`,
	`.btn:has-text("Excel")`,
	`button[id*="excel"]`,
	`button[class*="excel"]`,
}

// BrowserSession is the playwright-backed Session used in production.
type BrowserSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	mu       sync.Mutex
	download playwright.Download
}

// NewBrowserSession launches a Chromium session with an en-GB context that
// accepts downloads.
func NewBrowserSession(headless bool) (*BrowserSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads:   playwright.Bool(true),
		Viewport:          &playwright.Size{Width: 1280, Height: 800},
		UserAgent:         playwright.String(userAgent),
		Locale:            playwright.String("en-GB"),
		TimezoneId:        playwright.String("Europe/London"),
		DeviceScaleFactor: playwright.Float(1.0),
		HasTouch:          playwright.Bool(false),
		IsMobile:          playwright.Bool(false),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	// Pre-seed the site's consent cookie; the overlay often stays down entirely.
	err = browserCtx.AddCookies([]playwright.OptionalCookie{{
		Name:   "user_preference",
		Value:  "accepted",
		Domain: playwright.String("www.dmo.gov.uk"),
		Path:   playwright.String("/"),
	}})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to pre-seed consent cookie")
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	session := &BrowserSession{pw: pw, browser: browser, page: page}
	page.OnDownload(func(download playwright.Download) {
		log.Debug().Str("filename", download.SuggestedFilename()).Msg("Download started")
		session.mu.Lock()
		session.download = download
		session.mu.Unlock()
	})

	return session, nil
}

func (s *BrowserSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(navigationTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (s *BrowserSession) DismissConsent(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, selector := range consentSelectors {
		locator := s.page.Locator(selector)
		count, err := locator.Count()
		if err != nil || count == 0 {
			continue
		}
		log.Debug().Str("selector", selector).Msg("Found consent control")
		if err := locator.First().Click(); err != nil {
			return false, fmt.Errorf("consent control %s present but not clickable: %w", selector, err)
		}
		return true, nil
	}
	return false, nil
}

func (s *BrowserSession) TriggerExport(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, selector := range exportSelectors {
		locator := s.page.Locator(selector)
		count, err := locator.Count()
		if err != nil || count == 0 {
			continue
		}
		log.Debug().Str("selector", selector).Msg("Found export control")
		if err := locator.First().Click(); err != nil {
			return fmt.Errorf("export control %s present but not clickable: %w", selector, err)
		}
		return nil
	}
	return ErrExportControlNotFound
}

func (s *BrowserSession) AwaitDownload(ctx context.Context) (Download, error) {
	download, err := poll.Until(ctx, downloadWait, func(context.Context) (playwright.Download, bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.download != nil {
			return s.download, true, nil
		}
		return nil, false, nil
	})
	if err != nil {
		if errors.Is(err, poll.ErrBudgetExceeded) {
			return nil, ErrDownloadTimeout
		}
		return nil, err
	}
	return browserDownload{download}, nil
}

func (s *BrowserSession) Close() error {
	var firstErr error
	if err := s.browser.Close(); err != nil {
		firstErr = err
	}
	if err := s.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// browserDownload adapts playwright's download handle to the Download interface.
type browserDownload struct {
	download playwright.Download
}

func (b browserDownload) SuggestedFilename() string {
	return b.download.SuggestedFilename()
}

func (b browserDownload) SaveAs(path string) error {
	return b.download.SaveAs(path)
}
