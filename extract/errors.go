package extract

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FetchError wraps a failed page retrieval. Timeout distinguishes a slow
// site from an unreachable one; callers treat both as "extraction
// unavailable" and can still persist a source-only record.
type FetchError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *FetchError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("fetch timeout for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch failed for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrNotHTML is returned when the response body is not an HTML document.
var ErrNotHTML = errors.New("response is not HTML")

func newFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Timeout: isTimeout(err), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
