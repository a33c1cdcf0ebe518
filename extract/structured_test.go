package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return d
}

func TestFindJSONLD_SkipsMalformedAndUnknownTypes(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{ broken</script>
<script type="application/ld+json">{"@type":"BreadcrumbList"}</script>
<script type="application/ld+json">[{"@type":"WebSite"},{"@type":"Offer","price":"175000"}]</script>
</head></html>`

	ld := findJSONLD(doc(t, html))
	if ld == nil {
		t.Fatal("expected an Offer object")
	}
	if ld["@type"] != "Offer" {
		t.Fatalf("expected Offer, got %v", ld["@type"])
	}
	if p := ldPrice(ld); p == nil || *p != 175000 {
		t.Fatalf("expected price 175000, got %v", p)
	}
}

func TestOgTag(t *testing.T) {
	html := `<html><head>
<meta content="Bel appartement" property="OG:TITLE">
<meta property="og:image" content="https://img.example.com/a.jpg?w=800&amp;h=600">
<meta property="og:empty" content="">
</head></html>`
	d := doc(t, html)

	if got := ogTag(d, "title"); got == nil || *got != "Bel appartement" {
		t.Fatalf("og:title = %v", got)
	}
	if got := ogTag(d, "image"); got == nil || *got != "https://img.example.com/a.jpg?w=800&h=600" {
		t.Fatalf("og:image entities not unescaped: %v", got)
	}
	if got := ogTag(d, "empty"); got != nil {
		t.Fatalf("empty og tag should be nil, got %q", *got)
	}
	if got := ogTag(d, "missing"); got != nil {
		t.Fatalf("missing og tag should be nil, got %q", *got)
	}
}

func TestLdPrice_OfferArray(t *testing.T) {
	ld := map[string]any{
		"offers": []any{
			map[string]any{"price": "320 000"},
			map[string]any{"price": float64(1)},
		},
	}
	if p := ldPrice(ld); p == nil || *p != 320000 {
		t.Fatalf("expected first offer price 320000, got %v", p)
	}
	if p := ldPrice(nil); p != nil {
		t.Fatalf("nil object should yield nil price, got %v", p)
	}
}

func TestLdLocation(t *testing.T) {
	withAddress := map[string]any{
		"address": map[string]any{"addressLocality": "Lyon", "postalCode": "69003"},
	}
	if got := ldLocation(withAddress); got == nil || *got != "Lyon 69003" {
		t.Fatalf("postal address = %v", got)
	}

	plain := map[string]any{"address": "Bordeaux"}
	if got := ldLocation(plain); got == nil || *got != "Bordeaux" {
		t.Fatalf("plain address = %v", got)
	}
}

func TestLdImage_Shapes(t *testing.T) {
	bare := map[string]any{"image": "https://img.example.com/a.jpg"}
	if got := ldImage(bare); got == nil || *got != "https://img.example.com/a.jpg" {
		t.Fatalf("bare url = %v", got)
	}

	object := map[string]any{"image": map[string]any{"url": "https://img.example.com/b.jpg"}}
	if got := ldImage(object); got == nil || *got != "https://img.example.com/b.jpg" {
		t.Fatalf("ImageObject = %v", got)
	}

	list := map[string]any{"image": []any{"https://img.example.com/c.jpg", "https://img.example.com/d.jpg"}}
	if got := ldImage(list); got == nil || *got != "https://img.example.com/c.jpg" {
		t.Fatalf("array = %v", got)
	}
}

func TestLocationFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"Bel appartement à Lyon", "Lyon", true},
		{"Maison à Bordeaux - 5 pièces", "Bordeaux", true},
		{"Appartement à La Rochelle centre", "La Rochelle", true},
		{"Appartement 3 pièces", "", false},
	}
	for _, tt := range tests {
		got := locationFromTitle(&tt.title)
		if tt.ok {
			if got == nil || *got != tt.want {
				t.Errorf("locationFromTitle(%q) = %v, want %q", tt.title, got, tt.want)
			}
		} else if got != nil {
			t.Errorf("locationFromTitle(%q) = %q, want nil", tt.title, *got)
		}
	}

	if got := locationFromTitle(nil); got != nil {
		t.Errorf("nil title should yield nil, got %q", *got)
	}
}
