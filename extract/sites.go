package extract

import (
	"strings"

	"immofolio/models"
)

type Strategy string

const (
	// StrategyHTTP is a plain GET with browser-like headers.
	StrategyHTTP Strategy = "http"
	// StrategyBrowser renders the page in headless chromium. Selected only
	// through the site table, never as a fallback from a failed plain fetch.
	StrategyBrowser Strategy = "browser"
)

// Adapter is a site-specific extractor that reads an embedded data structure
// instead of guessing from page text. Returning ok=false falls through to
// generic extraction on the same HTML.
type Adapter interface {
	Name() string
	Extract(html, pageURL string) (*models.ListingCandidate, bool)
}

// Site is the per-hostname policy: which source tag the URL carries, how to
// fetch it, and whether a dedicated adapter should be tried first.
type Site struct {
	Source   models.Source
	Strategy Strategy
	Adapter  Adapter
}

// siteTable maps hostname fragments to site policy. Matching is plain
// substring search on the URL, same as source tagging has always worked;
// a public-suffix parse buys nothing for a two-entry table.
var siteTable = []struct {
	fragment string
	site     Site
}{
	{"leboncoin.fr", Site{Source: models.SourceLeboncoin, Strategy: StrategyBrowser}},
	{"seloger.com", Site{Source: models.SourceSeloger, Strategy: StrategyBrowser, Adapter: &SelogerAdapter{}}},
}

// Classify resolves the site policy for a URL. Unknown hosts get the
// "autre" tag and the plain HTTP strategy.
func Classify(rawURL string) Site {
	for _, entry := range siteTable {
		if strings.Contains(rawURL, entry.fragment) {
			return entry.site
		}
	}
	return Site{Source: models.SourceAutre, Strategy: StrategyHTTP}
}
