package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"immofolio/models"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func strVal(t *testing.T, field string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s is nil, want %q", field, want)
	}
	if *got != want {
		t.Fatalf("%s = %q, want %q", field, *got, want)
	}
}

func TestFromHTML_JSONLD(t *testing.T) {
	cand := FromHTML(loadFixture(t, "listing_jsonld.html"))

	strVal(t, "title", cand.Title, "Bel appartement T3 lumineux")
	strVal(t, "image", cand.ImageURL, "https://img.example.com/photo1.jpg")
	strVal(t, "location", cand.Location, "Lyon 69003")
	strVal(t, "surface", cand.Surface, "45.5 m²")
	strVal(t, "rooms", cand.Rooms, "3 pièces")
	strVal(t, "bedrooms", cand.Bedrooms, "2 chambres")
	strVal(t, "energy", cand.EnergyRating, "C")
	strVal(t, "floor", cand.Floor, "2e étage")
	strVal(t, "charges", cand.Charges, "150 €/mois")
	strVal(t, "property type", cand.PropertyType, "Appartement")

	// JSON-LD offer price beats the og:price:amount of 999999.
	if cand.Price == nil || *cand.Price != 350000 {
		t.Fatalf("price = %v, want 350000", cand.Price)
	}
}

func TestFromHTML_OGFallback(t *testing.T) {
	cand := FromHTML(loadFixture(t, "listing_og.html"))

	strVal(t, "title", cand.Title, "Maison à Bordeaux - 5 pièces")
	strVal(t, "description", cand.Description, "Grande maison familiale de 120 m² avec 4 chambres et jardin.")
	strVal(t, "image", cand.ImageURL, "https://img.example.com/maison.jpg")
	strVal(t, "location", cand.Location, "Bordeaux")
	strVal(t, "surface", cand.Surface, "120 m²")
	strVal(t, "bedrooms", cand.Bedrooms, "4 chambres")
	strVal(t, "energy", cand.EnergyRating, "D")
	strVal(t, "property type", cand.PropertyType, "Maison")

	if cand.Price == nil || *cand.Price != 250000 {
		t.Fatalf("price = %v, want 250000", cand.Price)
	}
}

func TestFromHTML_Idempotent(t *testing.T) {
	html := loadFixture(t, "listing_jsonld.html")
	first := FromHTML(html)
	second := FromHTML(html)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("extraction is not deterministic for identical input")
	}
}

func TestFromHTML_EmptyInput(t *testing.T) {
	cand := FromHTML("")
	if cand == nil {
		t.Fatal("expected a candidate for empty input")
	}
	if n := cand.FieldCount(); n != 0 {
		t.Fatalf("expected no fields for empty input, got %d", n)
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	page := loadFixture(t, "listing_og.html")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	e := NewExtractor(NewHTTPFetcher(srv.Client()), nil)
	cand, err := e.Extract(context.Background(), srv.URL+"/annonce/123")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if cand.Source != models.SourceAutre {
		t.Fatalf("source = %s, want autre", cand.Source)
	}
	if cand.Blocked {
		t.Fatal("page wrongly classified as blocked")
	}
	if cand.Price == nil || *cand.Price != 250000 {
		t.Fatalf("price = %v, want 250000", cand.Price)
	}
	strVal(t, "location", cand.Location, "Bordeaux")
}

func TestExtract_BlockedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html>Forbidden</html>"))
	}))
	defer srv.Close()

	e := NewExtractor(NewHTTPFetcher(srv.Client()), nil)
	cand, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("blocked page should not be an error: %v", err)
	}
	if !cand.Blocked {
		t.Fatal("expected Blocked=true")
	}
	if cand.Source != models.SourceAutre {
		t.Fatalf("source = %s, want autre", cand.Source)
	}
	if n := cand.FieldCount(); n != 0 {
		t.Fatalf("blocked candidate should carry no content fields, got %d", n)
	}
}

func TestExtract_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	e := NewExtractor(NewHTTPFetcher(&http.Client{Timeout: 2 * time.Second}), nil)
	cand, err := e.Extract(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if cand == nil || cand.Source != models.SourceAutre {
		t.Fatalf("expected source-only candidate, got %+v", cand)
	}
}
