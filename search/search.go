package search

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"immofolio/config"
	"immofolio/extract"
	"immofolio/models"
)

// Scraper runs one portal's saved-search: render the search results page
// through the shared browser fetcher, then parse the cards. Search pages
// on both portals are JS-rendered, so the plain HTTP strategy is useless
// here.
type Scraper struct {
	cfg     *config.SiteConfig
	fetcher extract.Fetcher
	parse   func(html string) []models.SearchHit
}

// New builds a scraper for a configured site. The fetcher is shared with
// the extraction pipeline so the headless-session bound applies globally.
func New(cfg *config.SiteConfig, fetcher extract.Fetcher) (*Scraper, error) {
	s := &Scraper{cfg: cfg, fetcher: fetcher}
	switch cfg.Handler {
	case "leboncoin":
		s.parse = ParseLeboncoinResults
	case "seloger":
		s.parse = ParseSelogerResults
	default:
		return nil, fmt.Errorf("unknown search handler: %s", cfg.Handler)
	}
	return s, nil
}

func (s *Scraper) ID() string {
	return s.cfg.ID
}

// Search fetches and parses one results page for a prompt.
func (s *Scraper) Search(ctx context.Context, prompt string) ([]models.SearchHit, error) {
	searchURL := fmt.Sprintf(s.cfg.SearchURL, url.QueryEscape(prompt))
	log.Printf("[%s] Searching: %s", s.cfg.ID, searchURL)

	res, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch search page: %w", err)
	}

	if extract.IsBlocked(res.HTML, res.StatusCode) {
		return nil, fmt.Errorf("search page blocked for %s", s.cfg.ID)
	}

	hits := s.parse(res.HTML)
	log.Printf("[%s] Found %d listings", s.cfg.ID, len(hits))
	return hits, nil
}
