package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonLDTypes are the schema.org types worth reading on a listing page.
var jsonLDTypes = map[string]bool{
	"Product":               true,
	"RealEstateListing":     true,
	"Residence":             true,
	"Apartment":             true,
	"House":                 true,
	"SingleFamilyResidence": true,
	"Offer":                 true,
}

// findJSONLD scans the ld+json script blocks and returns the first decoded
// object whose @type is in the known set. Malformed blocks are skipped, not
// fatal: pages routinely carry broken analytics JSON next to valid markup.
func findJSONLD(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var decoded any
		if err := json.Unmarshal([]byte(s.Text()), &decoded); err != nil {
			return true
		}
		items, ok := decoded.([]any)
		if !ok {
			items = []any{decoded}
		}
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if t, _ := m["@type"].(string); jsonLDTypes[t] {
				found = m
				return false
			}
		}
		return true
	})
	return found
}

// ogTag returns the content of <meta property="og:{prop}">. The property
// attribute is matched case-insensitively and attribute order in the tag
// does not matter since we read parsed attributes, not raw markup.
func ogTag(doc *goquery.Document, prop string) *string {
	return metaContent(doc, "property", "og:"+prop)
}

func metaName(doc *goquery.Document, name string) *string {
	return metaContent(doc, "name", name)
}

func metaContent(doc *goquery.Document, attr, want string) *string {
	var found *string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		val, ok := s.Attr(attr)
		if !ok || !strings.EqualFold(val, want) {
			return true
		}
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return true
		}
		content = strings.ReplaceAll(content, "&amp;", "&")
		found = &content
		return false
	})
	return found
}

func pageTitle(doc *goquery.Document) *string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return nil
	}
	return &title
}

func ldString(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	s, ok := m[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// ldImage accepts the three shapes seen in the wild: a bare URL string, an
// ImageObject with a url field, or an array of either.
func ldImage(m map[string]any) *string {
	if m == nil {
		return nil
	}
	return imageValue(m["image"])
}

func imageValue(v any) *string {
	switch img := v.(type) {
	case string:
		if img != "" {
			return &img
		}
	case map[string]any:
		if u, ok := img["url"].(string); ok && u != "" {
			return &u
		}
	case []any:
		if len(img) > 0 {
			return imageValue(img[0])
		}
	}
	return nil
}

// ldPrice prefers offers.price, then a bare price field with non-digits
// stripped. Anything that doesn't parse to an integer yields nil.
func ldPrice(m map[string]any) *int {
	if m == nil {
		return nil
	}
	offers := m["offers"]
	if list, ok := offers.([]any); ok && len(list) > 0 {
		offers = list[0]
	}
	if o, ok := offers.(map[string]any); ok {
		if p := parseIntLoose(o["price"]); p != nil {
			return p
		}
	}
	return parseIntLoose(m["price"])
}

// ldLocation reads the address field: either a plain string or a
// PostalAddress with locality and postal code.
func ldLocation(m map[string]any) *string {
	if m == nil {
		return nil
	}
	switch addr := m["address"].(type) {
	case string:
		if addr != "" {
			return &addr
		}
	case map[string]any:
		var parts []string
		if loc, ok := addr["addressLocality"].(string); ok && loc != "" {
			parts = append(parts, loc)
		}
		if pc, ok := addr["postalCode"].(string); ok && pc != "" {
			parts = append(parts, pc)
		}
		if len(parts) > 0 {
			joined := strings.Join(parts, " ")
			return &joined
		}
	}
	return nil
}

// titleLocationRe finds a capitalized place name after "à"/"a" in a title,
// e.g. "Bel appartement à Lyon". Low confidence: it fires on any
// capitalized word in that position.
var titleLocationRe = regexp.MustCompile(`(?:à|a)\s+([A-ZÀ-Ü][a-zà-ü\-]+(?:\s[A-ZÀ-Ü][a-zà-ü\-]+)*)`)

func locationFromTitle(title *string) *string {
	if title == nil {
		return nil
	}
	m := titleLocationRe.FindStringSubmatch(*title)
	if m == nil {
		return nil
	}
	return &m[1]
}
