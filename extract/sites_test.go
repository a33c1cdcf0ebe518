package extract

import (
	"testing"

	"immofolio/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url      string
		source   models.Source
		strategy Strategy
		adapter  bool
	}{
		{"https://www.leboncoin.fr/ad/ventes_immobilieres/123", models.SourceLeboncoin, StrategyBrowser, false},
		{"https://www.seloger.com/annonces/achat/appartement/lyon-69/1.htm", models.SourceSeloger, StrategyBrowser, true},
		{"https://www.pap.fr/annonces/maison-bordeaux", models.SourceAutre, StrategyHTTP, false},
		{"https://example.com/annonce", models.SourceAutre, StrategyHTTP, false},
	}

	for _, tt := range tests {
		site := Classify(tt.url)
		if site.Source != tt.source {
			t.Errorf("Classify(%s).Source = %s, want %s", tt.url, site.Source, tt.source)
		}
		if site.Strategy != tt.strategy {
			t.Errorf("Classify(%s).Strategy = %s, want %s", tt.url, site.Strategy, tt.strategy)
		}
		if (site.Adapter != nil) != tt.adapter {
			t.Errorf("Classify(%s).Adapter presence = %v, want %v", tt.url, site.Adapter != nil, tt.adapter)
		}
	}
}
