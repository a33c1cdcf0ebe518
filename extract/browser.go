package extract

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/sync/semaphore"
)

const (
	navigationTimeout = 30 * time.Second
	renderWait        = 5 * time.Second
)

// consentSelectors are tried in order after navigation. Didomi is what
// leboncoin and seloger actually use; the rest are generic accept buttons.
var consentSelectors = []string{
	"#didomi-notice-agree-button",
	"button[id*='accept']",
	"button:has-text('Tout accepter')",
	"button:has-text('Accepter')",
	"button:has-text('Accept')",
}

// BrowserFetcher renders a page in headless chromium before reading its
// HTML. A browser session is expensive (process startup plus a fixed render
// wait), so concurrent sessions are bounded by a weighted semaphore.
type BrowserFetcher struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	sessions    *semaphore.Weighted
	initialized bool
}

func NewBrowserFetcher(maxSessions int64) *BrowserFetcher {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &BrowserFetcher{sessions: semaphore.NewWeighted(maxSessions)}
}

func (f *BrowserFetcher) ensureBrowser() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initialized {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch browser: %w", err)
	}

	f.pw = pw
	f.browser = browser
	f.initialized = true
	return nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	if err := f.sessions.Acquire(ctx, 1); err != nil {
		return nil, newFetchError(pageURL, err)
	}
	defer f.sessions.Release(1)

	if err := f.ensureBrowser(); err != nil {
		return nil, newFetchError(pageURL, err)
	}

	bctx, err := f.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Locale:    playwright.String("fr-FR"),
		Viewport:  &playwright.Size{Width: 1366, Height: 768},
	})
	if err != nil {
		return nil, newFetchError(pageURL, fmt.Errorf("new context: %w", err))
	}
	defer bctx.Close()

	// Tear the context down if the caller gives up, so a cancelled request
	// doesn't leave a session rendering to completion unobserved.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			bctx.Close()
		case <-done:
		}
	}()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, newFetchError(pageURL, fmt.Errorf("new page: %w", err))
	}

	resp, err := page.Goto(pageURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(navigationTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, newFetchError(pageURL, ctx.Err())
		}
		return nil, newFetchError(pageURL, fmt.Errorf("goto: %w", err))
	}

	// Fixed pause for client-side rendering, then clear the consent overlay
	// so it doesn't sit in front of the listing content.
	page.WaitForTimeout(float64(renderWait.Milliseconds()))
	f.dismissConsent(page)

	html, err := page.Content()
	if err != nil {
		if ctx.Err() != nil {
			return nil, newFetchError(pageURL, ctx.Err())
		}
		return nil, newFetchError(pageURL, fmt.Errorf("read content: %w", err))
	}

	status := 200
	if resp != nil {
		status = resp.Status()
	}

	return &FetchResult{HTML: html, StatusCode: status}, nil
}

// dismissConsent clicks the first visible cookie banner button. Absence is
// fine; most pages only show it on the first visit of a context.
func (f *BrowserFetcher) dismissConsent(page playwright.Page) {
	for _, selector := range consentSelectors {
		btn := page.Locator(selector).First()
		if visible, _ := btn.IsVisible(); visible {
			if err := btn.Click(); err == nil {
				log.Printf("Dismissed consent overlay via %s", selector)
				page.WaitForTimeout(1000)
			}
			return
		}
	}
}

func (f *BrowserFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		f.browser.Close()
		f.browser = nil
	}
	if f.pw != nil {
		f.pw.Stop()
		f.pw = nil
	}
	f.initialized = false
}
