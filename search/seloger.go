package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"immofolio/extract"
	"immofolio/models"
)

const selogerBase = "https://www.seloger.com"

// ParseSelogerResults prefers the embedded initialData JSON, which carries
// every card as fielded data, and only falls back to DOM scraping when the
// blob is missing.
func ParseSelogerResults(html string) []models.SearchHit {
	if hits, ok := extract.SelogerHits(html); ok {
		return hits
	}
	return parseSelogerDOM(html)
}

func parseSelogerDOM(html string) []models.SearchHit {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var hits []models.SearchHit
	seen := make(map[string]bool)

	doc.Find(`[data-testid="sl.explore.card-container"], article`).Each(func(_ int, card *goquery.Selection) {
		anchor := card.Find(`a[href*="annonces"]`).First()
		if anchor.Length() == 0 {
			return
		}

		href, _ := anchor.Attr("href")
		adURL := href
		if !strings.HasPrefix(adURL, "http") {
			adURL = selogerBase + adURL
		}
		if seen[adURL] {
			return
		}
		seen[adURL] = true

		title := text(card.Find(`[data-testid="sl.explore.card-title"], h2`).First())
		priceText := text(card.Find(`[data-testid="sl.explore.card-price"]`).First())
		location := text(card.Find(`[data-testid="sl.explore.card-city"]`).First())

		img := card.Find("img").First()
		imageURL, _ := img.Attr("src")

		var surface, rooms string
		card.Find("span").Each(func(_ int, tag *goquery.Selection) {
			t := text(tag)
			if surface == "" && strings.Contains(t, "m²") {
				surface = t
			}
			if rooms == "" && (strings.Contains(t, "pièce") || strings.Contains(t, "ch")) {
				rooms = t
			}
		})

		hits = append(hits, models.SearchHit{
			ExternalURL: adURL,
			Candidate: models.ListingCandidate{
				Title:    opt(title),
				Price:    parsePriceText(priceText),
				Location: opt(location),
				Surface:  opt(surface),
				Rooms:    opt(rooms),
				ImageURL: opt(imageURL),
				Source:   models.SourceSeloger,
			},
		})
	})

	return hits
}
