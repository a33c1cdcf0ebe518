package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"immofolio/models"
)

const leboncoinBase = "https://www.leboncoin.fr"

// ParseLeboncoinResults extracts ad cards from a rendered leboncoin search
// page. Leboncoin wraps each ad in a data-qa-id container or a bare /ad/
// anchor depending on the layout variant.
func ParseLeboncoinResults(html string) []models.SearchHit {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var hits []models.SearchHit
	seen := make(map[string]bool)

	doc.Find(`[data-qa-id="aditem_container"], a[href*="/ad/"]`).Each(func(_ int, s *goquery.Selection) {
		anchor := s
		if !s.Is("a") {
			anchor = s.Find("a").First()
			if anchor.Length() == 0 {
				return
			}
		}

		href, _ := anchor.Attr("href")
		if !strings.Contains(href, "/ad/") {
			return
		}
		adURL := href
		if !strings.HasPrefix(adURL, "http") {
			adURL = leboncoinBase + adURL
		}
		if seen[adURL] {
			return
		}
		seen[adURL] = true

		title := text(s.Find(`[data-qa-id="aditem_title"], h2, p[data-test-id="ad-title"]`).First())
		priceText := text(s.Find(`[data-qa-id="aditem_price"], span[data-test-id="ad-price"]`).First())
		location := text(s.Find(`[data-qa-id="aditem_location"], p[data-test-id="ad-location"]`).First())

		img := s.Find("img").First()
		imageURL, ok := img.Attr("src")
		if !ok || imageURL == "" {
			imageURL, _ = img.Attr("data-src")
		}

		var surface, rooms string
		s.Find(`[data-qa-id="aditem_tags"] span, [data-test-id="ad-params"] span`).Each(func(_ int, tag *goquery.Selection) {
			t := text(tag)
			if strings.Contains(t, "m²") {
				surface = t
			}
			if strings.Contains(t, "pièce") || strings.Contains(t, "chambre") {
				rooms = t
			}
		})

		if title == "" && adURL == "" {
			return
		}

		hits = append(hits, models.SearchHit{
			ExternalURL: adURL,
			Candidate: models.ListingCandidate{
				Title:    opt(title),
				Price:    parsePriceText(priceText),
				Location: opt(location),
				Surface:  opt(surface),
				Rooms:    opt(rooms),
				ImageURL: opt(imageURL),
				Source:   models.SourceLeboncoin,
			},
		})
	})

	return hits
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parsePriceText(s string) *int {
	var n int
	var found bool
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	if !found || n == 0 {
		return nil
	}
	return &n
}
