package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"immofolio/models"
)

// Each heuristic is a pure function (text) -> (formatted value, matched).
// The extractor applies them to the description first, then to the raw
// HTML, and only for fields structured data did not supply. A non-match
// leaves the field nil; no rule failure affects the others.

var (
	surfaceRe   = regexp.MustCompile(`(?i)(\d+(?:,\d+)?)\s*m[²2]`)
	roomsRe     = regexp.MustCompile(`(?i)(\d+)\s*pi[eè]ce`)
	bedroomsRe  = regexp.MustCompile(`(?i)(\d+)\s*chambre`)
	energyRe    = regexp.MustCompile(`(?i)DPE\s*:?\s*([A-Ga-g])\b`)
	floorRe     = regexp.MustCompile(`(?i)(\d+)\s*[eè](?:me)?\s*étage`)
	groundRe    = regexp.MustCompile(`(?i)rez[\s-]*de[\s-]*chauss[ée]e?`)
	chargesRe   = regexp.MustCompile(`(?i)charges?\s*:?\s*(\d+[\d\s.,]*)\s*€`)
	rawPriceRe  = regexp.MustCompile(`(\d[\d\s\x{00a0}.,]{2,})\s*€`)
	priceStrip  = strings.NewReplacer(" ", "", " ", "", ".", "", ",", "")
	nonDigitsRe = regexp.MustCompile(`\D`)
)

// surfaceFrom normalizes a decimal comma: "45,5 m²" -> "45.5 m²".
func surfaceFrom(text string) (string, bool) {
	m := surfaceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.Replace(m[1], ",", ".", 1) + " m²", true
}

func roomsFrom(text string) (string, bool) {
	m := roomsRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + " pièces", true
}

func bedroomsFrom(text string) (string, bool) {
	m := bedroomsRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + " chambres", true
}

func energyRatingFrom(text string) (string, bool) {
	m := energyRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// floorFrom gives the ground-floor phrase priority over a numbered floor:
// descriptions like "au rez-de-chaussée d'un immeuble de 3 étages" describe
// a ground-floor unit.
func floorFrom(text string) (string, bool) {
	if groundRe.MatchString(text) {
		return "RDC", true
	}
	if m := floorRe.FindStringSubmatch(text); m != nil {
		return m[1] + "e étage", true
	}
	return "", false
}

func chargesFrom(text string) (string, bool) {
	m := chargesRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]) + " €/mois", true
}

// priceFrom is the lowest-confidence tier: the first "<number> €" anywhere
// in the page, separators stripped. Used only when every structured source
// came up empty.
func priceFrom(text string) (int, bool) {
	m := rawPriceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(priceStrip.Replace(strings.TrimSpace(m[1])))
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// propertyTypeFrom checks the known type vocabulary against the lowercased
// title, then the description. First match wins, first letter capitalized.
func propertyTypeFrom(title, description string) (string, bool) {
	lowerTitle := strings.ToLower(title)
	lowerDesc := strings.ToLower(description)
	for _, t := range models.PropertyTypes {
		if strings.Contains(lowerTitle, t) || strings.Contains(lowerDesc, t) {
			return strings.ToUpper(t[:1]) + t[1:], true
		}
	}
	return "", false
}

// firstMatch applies a string rule to each text in order and returns the
// first hit.
func firstMatch(rule func(string) (string, bool), texts ...string) *string {
	for _, text := range texts {
		if text == "" {
			continue
		}
		if v, ok := rule(text); ok {
			return &v
		}
	}
	return nil
}

// parseIntLoose coerces a JSON value (number or string) to a whole integer,
// stripping non-digit characters from strings. Unparseable values are nil.
func parseIntLoose(v any) *int {
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case string:
		digits := nonDigitsRe.ReplaceAllString(val, "")
		if digits == "" {
			return nil
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return nil
		}
		return &n
	case fmt.Stringer:
		return parseIntLoose(val.String())
	}
	return nil
}
