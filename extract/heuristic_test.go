package extract

import "testing"

func TestSurfaceFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Surface de 45,5 m² avec 2 chambres", "45.5 m²", true},
		{"80 m2 habitables", "80 m²", true},
		{"studio de 18m²", "18 m²", true},
		{"aucune surface mentionnée", "", false},
	}
	for _, tt := range tests {
		got, ok := surfaceFrom(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("surfaceFrom(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRoomsAndBedrooms(t *testing.T) {
	if got, ok := roomsFrom("appartement 3 pièces"); !ok || got != "3 pièces" {
		t.Errorf("roomsFrom = %q, %v", got, ok)
	}
	if got, ok := roomsFrom("4 pieces en centre-ville"); !ok || got != "4 pièces" {
		t.Errorf("roomsFrom unaccented = %q, %v", got, ok)
	}
	if got, ok := bedroomsFrom("avec 2 chambres et un bureau"); !ok || got != "2 chambres" {
		t.Errorf("bedroomsFrom = %q, %v", got, ok)
	}
	if _, ok := bedroomsFrom("aucune mention"); ok {
		t.Error("bedroomsFrom matched text without bedrooms")
	}
}

func TestEnergyRatingFrom(t *testing.T) {
	if got, ok := energyRatingFrom("DPE : c"); !ok || got != "C" {
		t.Errorf("energyRatingFrom = %q, %v", got, ok)
	}
	if got, ok := energyRatingFrom("dpe D classe énergie"); !ok || got != "D" {
		t.Errorf("energyRatingFrom no colon = %q, %v", got, ok)
	}
	if _, ok := energyRatingFrom("DPE : Z"); ok {
		t.Error("energyRatingFrom accepted letter outside A-G")
	}
}

func TestFloorFrom(t *testing.T) {
	if got, ok := floorFrom("au 3ème étage avec ascenseur"); !ok || got != "3e étage" {
		t.Errorf("floorFrom numbered = %q, %v", got, ok)
	}
	if got, ok := floorFrom("rez-de-chaussée sur cour"); !ok || got != "RDC" {
		t.Errorf("floorFrom ground = %q, %v", got, ok)
	}
	// Ground-floor phrase wins even when a numbered floor appears too.
	if got, ok := floorFrom("local au rez de chaussée, anciennement au 2ème étage"); !ok || got != "RDC" {
		t.Errorf("floorFrom precedence = %q, %v", got, ok)
	}
	if _, ok := floorFrom("maison de plain-pied"); ok {
		t.Error("floorFrom matched text without a floor")
	}
}

func TestChargesFrom(t *testing.T) {
	if got, ok := chargesFrom("charges : 150 € par mois"); !ok || got != "150 €/mois" {
		t.Errorf("chargesFrom = %q, %v", got, ok)
	}
	if _, ok := chargesFrom("loyer 800 € hors charges"); ok {
		t.Error("chargesFrom matched without an amount after the keyword")
	}
}

func TestPriceFrom(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"Prix : 250 000 €", 250000, true},
		{"1.250.000 € à débattre", 1250000, true},
		{"aucun prix ici", 0, false},
	}
	for _, tt := range tests {
		got, ok := priceFrom(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("priceFrom(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPropertyTypeFrom(t *testing.T) {
	if got, ok := propertyTypeFrom("Bel appartement à Lyon", ""); !ok || got != "Appartement" {
		t.Errorf("propertyTypeFrom title = %q, %v", got, ok)
	}
	if got, ok := propertyTypeFrom("", "belle maison de ville avec jardin"); !ok || got != "Maison" {
		t.Errorf("propertyTypeFrom description = %q, %v", got, ok)
	}
	if _, ok := propertyTypeFrom("Bien rare", "emplacement exceptionnel"); ok {
		t.Error("propertyTypeFrom matched unknown type")
	}
}

func TestParseIntLoose(t *testing.T) {
	if p := parseIntLoose(float64(350000)); p == nil || *p != 350000 {
		t.Errorf("parseIntLoose(float64) = %v", p)
	}
	if p := parseIntLoose("320 000 €"); p == nil || *p != 320000 {
		t.Errorf("parseIntLoose(string) = %v", p)
	}
	if p := parseIntLoose("pas de prix"); p != nil {
		t.Errorf("parseIntLoose(no digits) = %v", p)
	}
	if p := parseIntLoose(nil); p != nil {
		t.Errorf("parseIntLoose(nil) = %v", p)
	}
}
