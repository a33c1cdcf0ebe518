package search

import (
	"os"
	"path/filepath"
	"testing"

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

func TestParseLeboncoinResults(t *testing.T) {
	hits := ParseLeboncoinResults(loadFixture(t, "leboncoin_results.html"))
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	first := hits[0]
	if first.ExternalURL != "https://www.leboncoin.fr/ad/ventes_immobilieres/2891234567" {
		t.Fatalf("unexpected first URL %s", first.ExternalURL)
	}
	if first.Candidate.Source != models.SourceLeboncoin {
		t.Fatalf("source = %s, want leboncoin", first.Candidate.Source)
	}
	if first.Candidate.Title == nil || *first.Candidate.Title != "Appartement 3 pièces 65 m²" {
		t.Fatalf("title = %v", first.Candidate.Title)
	}
	if first.Candidate.Price == nil || *first.Candidate.Price != 320000 {
		t.Fatalf("price = %v, want 320000", first.Candidate.Price)
	}
	if first.Candidate.Location == nil || *first.Candidate.Location != "Lyon 69003" {
		t.Fatalf("location = %v", first.Candidate.Location)
	}
	if first.Candidate.Surface == nil || *first.Candidate.Surface != "65 m²" {
		t.Fatalf("surface = %v", first.Candidate.Surface)
	}
	if first.Candidate.Rooms == nil || *first.Candidate.Rooms != "3 pièces" {
		t.Fatalf("rooms = %v", first.Candidate.Rooms)
	}
	if first.Candidate.ImageURL == nil || *first.Candidate.ImageURL != "https://img.leboncoin.fr/api/v1/photo1.jpg" {
		t.Fatalf("image = %v", first.Candidate.ImageURL)
	}

	second := hits[1]
	if second.ExternalURL != "https://www.leboncoin.fr/ad/ventes_immobilieres/2891234568" {
		t.Fatalf("absolute URL should be kept as-is, got %s", second.ExternalURL)
	}
	if second.Candidate.Price == nil || *second.Candidate.Price != 450000 {
		t.Fatalf("second price = %v, want 450000", second.Candidate.Price)
	}
	if second.Candidate.ImageURL != nil {
		t.Fatalf("card without image should have nil ImageURL, got %q", *second.Candidate.ImageURL)
	}
}

func TestParseLeboncoinResults_EmptyPage(t *testing.T) {
	if hits := ParseLeboncoinResults("<html><body>aucun résultat</body></html>"); len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}
