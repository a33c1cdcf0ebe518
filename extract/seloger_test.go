package extract

import (
	"testing"

	"immofolio/models"
)

func TestSelogerAdapter_PicksCardMatchingURL(t *testing.T) {
	html := loadFixture(t, "seloger_initialdata.html")
	adapter := &SelogerAdapter{}

	cand, ok := adapter.Extract(html, "https://www.seloger.com/annonces/achat/maison/bordeaux-33/144409122.htm")
	if !ok {
		t.Fatal("expected adapter to find embedded data")
	}
	strVal(t, "title", cand.Title, "Maison 5 pièces")
	strVal(t, "location", cand.Location, "Bordeaux Caudéran")
	if cand.Price == nil || *cand.Price != 450000 {
		t.Fatalf("price = %v, want 450000", cand.Price)
	}
	if cand.ImageURL != nil {
		t.Fatalf("card without photos should have nil image, got %q", *cand.ImageURL)
	}
}

func TestSelogerAdapter_DefaultsToFirstCard(t *testing.T) {
	html := loadFixture(t, "seloger_initialdata.html")
	adapter := &SelogerAdapter{}

	cand, ok := adapter.Extract(html, "https://www.seloger.com/annonces/achat/quelque-chose.htm")
	if !ok {
		t.Fatal("expected adapter to find embedded data")
	}
	strVal(t, "title", cand.Title, "Appartement 3 pièces 65 m²")
	strVal(t, "location", cand.Location, "Lyon 3ème")
	strVal(t, "surface", cand.Surface, "65 m²")
	strVal(t, "rooms", cand.Rooms, "3 pièces")
	strVal(t, "image", cand.ImageURL, "https://photos.seloger.com/photos/1.jpg")
	if cand.Price == nil || *cand.Price != 320000 {
		t.Fatalf("price = %v, want 320000", cand.Price)
	}
}

func TestSelogerAdapter_NoEmbeddedData(t *testing.T) {
	adapter := &SelogerAdapter{}
	if _, ok := adapter.Extract("<html><body>page sans blob</body></html>", "https://www.seloger.com/x"); ok {
		t.Fatal("adapter should fall through without the initialData blob")
	}
	if _, ok := adapter.Extract(`<script>window["initialData"] = JSON.parse("{\"cards\":{\"list\":[]}}");</script>`, "u"); ok {
		t.Fatal("adapter should fall through on an empty card list")
	}
}

func TestSelogerHits(t *testing.T) {
	html := loadFixture(t, "seloger_initialdata.html")

	hits, ok := SelogerHits(html)
	if !ok {
		t.Fatal("expected hits from embedded data")
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ExternalURL != "https://www.seloger.com/annonces/achat/appartement/lyon-3eme-69/144409121.htm" {
		t.Fatalf("unexpected first URL %s", hits[0].ExternalURL)
	}
	for _, hit := range hits {
		if hit.Candidate.Source != models.SourceSeloger {
			t.Fatalf("hit source = %s, want seloger", hit.Candidate.Source)
		}
	}
}
