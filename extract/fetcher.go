package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxBodySize caps how much of a listing page we read. Real listing
	// pages are well under this; anything bigger is not worth parsing.
	maxBodySize = 10 * 1024 * 1024
)

// FetchResult is the raw outcome of one page retrieval. The body is kept
// even for error statuses: the block detector needs 403 bodies.
type FetchResult struct {
	HTML       string
	StatusCode int
}

// Fetcher retrieves the HTML of a single page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*FetchResult, error)
}

// HTTPFetcher is the default strategy: a plain GET with browser-like
// headers, following redirects, bounded by the client timeout (15s).
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, newFetchError(pageURL, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, newFetchError(pageURL, err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return nil, newFetchError(pageURL, fmt.Errorf("%w: %s", ErrNotHTML, ct))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, newFetchError(pageURL, fmt.Errorf("read body: %w", err))
	}

	return &FetchResult{HTML: string(body), StatusCode: resp.StatusCode}, nil
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
