package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"immofolio/models"
)

// initialDataRe captures the escaped JSON blob seloger embeds as
// window["initialData"] = JSON.parse("...").
var initialDataRe = regexp.MustCompile(`window\["initialData"\]\s*=\s*JSON\.parse\("(.+?)"\)`)

// SelogerAdapter reads seloger's server-rendered initialData blob. When the
// expected card structure is present it is authoritative fielded data, so
// generic extraction is skipped entirely. Absent or malformed data falls
// through to the generic path on the same HTML.
type SelogerAdapter struct{}

func (a *SelogerAdapter) Name() string {
	return "seloger"
}

type selogerInitialData struct {
	Cards struct {
		List []selogerCard `json:"list"`
	} `json:"cards"`
}

type selogerCard struct {
	ClassifiedURL string   `json:"classifiedURL"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CityLabel     string   `json:"cityLabel"`
	DistrictLabel string   `json:"districtLabel"`
	Tags          []string `json:"tags"`
	Photos        []string `json:"photos"`
	Pricing       struct {
		Price any `json:"price"`
	} `json:"pricing"`
}

func (a *SelogerAdapter) Extract(html, pageURL string) (*models.ListingCandidate, bool) {
	cards, ok := parseInitialData(html)
	if !ok {
		return nil, false
	}

	card := cards[0]
	for _, c := range cards {
		if c.ClassifiedURL != "" && strings.Contains(pageURL, c.ClassifiedURL) {
			card = c
			break
		}
	}
	return cardCandidate(card), true
}

// SelogerHits converts every card in the initialData blob into a search
// hit. Used by the saved-search scraper, where all cards matter rather
// than the one matching the page URL.
func SelogerHits(html string) ([]models.SearchHit, bool) {
	cards, ok := parseInitialData(html)
	if !ok {
		return nil, false
	}

	var hits []models.SearchHit
	for _, card := range cards {
		if card.ClassifiedURL == "" {
			continue
		}
		cand := cardCandidate(card)
		cand.Source = models.SourceSeloger
		hits = append(hits, models.SearchHit{ExternalURL: card.ClassifiedURL, Candidate: *cand})
	}
	return hits, true
}

func parseInitialData(html string) ([]selogerCard, bool) {
	m := initialDataRe.FindStringSubmatch(html)
	if m == nil {
		return nil, false
	}

	var data selogerInitialData
	if err := json.Unmarshal([]byte(unescapeInitialData(m[1])), &data); err != nil {
		return nil, false
	}
	if len(data.Cards.List) == 0 {
		return nil, false
	}
	return data.Cards.List, true
}

func cardCandidate(card selogerCard) *models.ListingCandidate {
	cand := &models.ListingCandidate{
		Title:       optional(card.Title),
		Description: optional(card.Description),
		Price:       parseIntLoose(card.Pricing.Price),
		Location:    optional(firstNonEmpty(card.CityLabel, card.DistrictLabel)),
	}
	if len(card.Photos) > 0 {
		cand.ImageURL = optional(card.Photos[0])
	}
	for _, tag := range card.Tags {
		if cand.Surface == nil && strings.Contains(tag, "m²") {
			cand.Surface = optional(tag)
		}
		if cand.Rooms == nil && (strings.Contains(tag, "pièce") || strings.Contains(tag, "ch")) {
			cand.Rooms = optional(tag)
		}
	}
	return cand
}

// unescapeInitialData undoes the JS string escaping around the embedded
// JSON: \" back to " and \\ back to \.
func unescapeInitialData(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
