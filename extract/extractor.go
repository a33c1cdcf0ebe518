package extract

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"immofolio/models"
)

// Extractor turns a listing URL into a ListingCandidate. One extraction is
// a stateless pass: fetch (strategy per site table), classify blocked vs
// usable, then adapter-first extraction with a generic fallback. The only
// shared state is read-only configuration, so extractions can run
// concurrently, one per inbound request.
type Extractor struct {
	plain   Fetcher
	browser Fetcher
}

func NewExtractor(plain, browser Fetcher) *Extractor {
	return &Extractor{plain: plain, browser: browser}
}

// Extract runs the full pipeline for one URL.
//
// Outcomes:
//   - blocked page: candidate with Source and Blocked=true only, nil error
//   - fetch failure: source-only candidate plus a *FetchError, so the
//     caller can still persist a minimal record
//   - anything else: best-effort candidate, nil error; a parser panic
//     degrades to a source-only candidate instead of propagating
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*models.ListingCandidate, error) {
	site := Classify(pageURL)

	fetcher := e.plain
	if site.Strategy == StrategyBrowser && e.browser != nil {
		fetcher = e.browser
	}

	res, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return &models.ListingCandidate{Source: site.Source}, err
	}

	if IsBlocked(res.HTML, res.StatusCode) {
		log.Printf("Blocked page detected for %s (status %d, %d bytes)", pageURL, res.StatusCode, len(res.HTML))
		return &models.ListingCandidate{Source: site.Source, Blocked: true}, nil
	}

	cand := e.extractContent(site, res.HTML, pageURL)
	cand.Source = site.Source
	return cand, nil
}

// extractContent shields the caller from parser faults: whatever goes wrong
// in adapter or generic extraction, the listing-creation flow gets a
// candidate back.
func (e *Extractor) extractContent(site Site, html, pageURL string) (cand *models.ListingCandidate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Extraction panic for %s: %v", pageURL, r)
			cand = &models.ListingCandidate{}
		}
	}()

	if site.Adapter != nil {
		if c, ok := site.Adapter.Extract(html, pageURL); ok {
			return c
		}
		log.Printf("Adapter %s found no embedded data for %s, falling back", site.Adapter.Name(), pageURL)
	}

	return FromHTML(html)
}

// FromHTML maps raw HTML to a candidate using structured data first and
// regex heuristics for whatever is left. Pure: identical input yields an
// identical candidate.
func FromHTML(html string) *models.ListingCandidate {
	cand := &models.ListingCandidate{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc = nil
	}

	var ld map[string]any
	if doc != nil {
		ld = findJSONLD(doc)
		cand.Title = coalesce(ldString(ld, "name"), ogTag(doc, "title"), pageTitle(doc))
		cand.Description = coalesce(ldString(ld, "description"), ogTag(doc, "description"), metaName(doc, "description"))
		cand.ImageURL = coalesce(ldImage(ld), ogTag(doc, "image"))
	}

	// Price: JSON-LD, then og:price:amount, then the noisy raw-HTML scan.
	cand.Price = ldPrice(ld)
	if cand.Price == nil && doc != nil {
		if amount := ogTag(doc, "price:amount"); amount != nil {
			cand.Price = parseIntLoose(*amount)
		}
	}
	if cand.Price == nil {
		if p, ok := priceFrom(html); ok {
			cand.Price = &p
		}
	}

	// Location: og tags, then JSON-LD address, then the title heuristic.
	if doc != nil {
		cand.Location = coalesce(ogTag(doc, "locality"), ogTag(doc, "region"))
	}
	if cand.Location == nil {
		cand.Location = ldLocation(ld)
	}
	if cand.Location == nil {
		cand.Location = locationFromTitle(cand.Title)
	}

	desc := deref(cand.Description)
	cand.Surface = firstMatch(surfaceFrom, desc, html)
	cand.Rooms = firstMatch(roomsFrom, desc, html)
	cand.Bedrooms = firstMatch(bedroomsFrom, desc, html)
	cand.EnergyRating = firstMatch(energyRatingFrom, desc, html)
	cand.Floor = firstMatch(floorFrom, desc, html)
	cand.Charges = firstMatch(chargesFrom, desc)

	if t, ok := propertyTypeFrom(deref(cand.Title), desc); ok {
		cand.PropertyType = &t
	}

	return cand
}

func coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
