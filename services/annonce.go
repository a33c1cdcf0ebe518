package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"immofolio/extract"
	"immofolio/models"
	"immofolio/storage"
)

// ErrDuplicateAnnonce signals that the URL is already tracked. Callers can
// fetch the existing record with GetByURL.
var ErrDuplicateAnnonce = errors.New("annonce already exists for this URL")

// AnnonceService creates annonces from URLs (running metadata extraction),
// from manual input, and from saved-search results.
type AnnonceService struct {
	store     *storage.PostgresStore
	ops       *storage.SQLiteStore
	extractor *extract.Extractor
}

func NewAnnonceService(store *storage.PostgresStore, ops *storage.SQLiteStore, extractor *extract.Extractor) *AnnonceService {
	return &AnnonceService{store: store, ops: ops, extractor: extractor}
}

// CreateFromURL runs the extraction pipeline for a URL and persists the
// result. Extraction failures degrade instead of failing the request: the
// annonce is still created with the source tag derived from the URL, and
// the Blocked flag tells the caller to prompt for manual entry.
func (s *AnnonceService) CreateFromURL(ctx context.Context, pageURL string) (*models.Annonce, error) {
	existing, err := s.store.GetAnnonceByURL(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if existing != nil {
		return existing, ErrDuplicateAnnonce
	}

	run := &models.ExtractRun{
		Kind:      models.RunKindExtract,
		Target:    pageURL,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID := s.startRun(run)

	cand, err := s.extractor.Extract(ctx, pageURL)
	if err != nil {
		// Extraction unavailable: the candidate still carries the source
		// tag, so a minimal record is inserted anyway.
		log.Printf("Extraction failed for %s: %v", pageURL, err)
		s.logRun(runID, models.LogLevelError, fmt.Sprintf("extraction failed: %v", err), string(cand.Source))
		run.Status = models.RunStatusFailed
		run.ErrorsCount = 1
	} else if cand.Blocked {
		run.Status = models.RunStatusBlocked
	} else {
		run.Status = models.RunStatusCompleted
	}

	annonce := annonceFromCandidate(cand, pageURL)
	if err := s.store.CreateAnnonce(ctx, annonce); err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorsCount++
		s.finishRun(run, runID, cand.FieldCount(), 0)
		return nil, fmt.Errorf("create annonce: %w", err)
	}

	s.finishRun(run, runID, cand.FieldCount(), 1)
	log.Printf("Annonce created from %s: source=%s blocked=%v fields=%d",
		pageURL, cand.Source, cand.Blocked, cand.FieldCount())
	return annonce, nil
}

// CreateManual persists a hand-entered annonce. The source tag is still
// derived from the URL when one is supplied.
func (s *AnnonceService) CreateManual(ctx context.Context, a *models.Annonce) (*models.Annonce, error) {
	if a.Source == "" {
		a.Source = extract.Classify(a.ExternalURL).Source
	}
	if err := s.store.CreateAnnonce(ctx, a); err != nil {
		return nil, fmt.Errorf("create annonce: %w", err)
	}
	return a, nil
}

// SaveSearchHits inserts search-scraper results, skipping URLs already
// tracked. Returns the number of new annonces.
func (s *AnnonceService) SaveSearchHits(ctx context.Context, hits []models.SearchHit) (int, error) {
	var created int
	for _, hit := range hits {
		if hit.ExternalURL == "" {
			continue
		}
		existing, err := s.store.GetAnnonceByURL(ctx, hit.ExternalURL)
		if err != nil {
			return created, fmt.Errorf("check duplicate: %w", err)
		}
		if existing != nil {
			continue
		}
		annonce := annonceFromCandidate(&hit.Candidate, hit.ExternalURL)
		if err := s.store.CreateAnnonce(ctx, annonce); err != nil {
			log.Printf("Failed to save search hit %s: %v", hit.ExternalURL, err)
			continue
		}
		created++
	}
	return created, nil
}

func annonceFromCandidate(c *models.ListingCandidate, pageURL string) *models.Annonce {
	return &models.Annonce{
		Source:       c.Source,
		ExternalURL:  pageURL,
		Title:        c.Title,
		Price:        c.Price,
		Surface:      c.Surface,
		Location:     c.Location,
		Rooms:        c.Rooms,
		Bedrooms:     c.Bedrooms,
		ImageURL:     c.ImageURL,
		Description:  c.Description,
		PropertyType: c.PropertyType,
		EnergyRating: c.EnergyRating,
		Floor:        c.Floor,
		Charges:      c.Charges,
		Blocked:      c.Blocked,
	}
}

// Operational run bookkeeping is best-effort: a broken local DB must not
// block listing creation.

func (s *AnnonceService) startRun(run *models.ExtractRun) int64 {
	if s.ops == nil {
		return 0
	}
	id, err := s.ops.CreateRun(run)
	if err != nil {
		log.Printf("Warning: failed to record run: %v", err)
		return 0
	}
	run.ID = id
	return id
}

func (s *AnnonceService) finishRun(run *models.ExtractRun, runID int64, fields, created int) {
	if s.ops == nil || runID == 0 {
		return
	}
	now := time.Now()
	run.FinishedAt = &now
	run.FieldsFound = fields
	run.ListingsNew = created
	if err := s.ops.UpdateRun(run); err != nil {
		log.Printf("Warning: failed to update run: %v", err)
	}
}

func (s *AnnonceService) logRun(runID int64, level models.LogLevel, message, source string) {
	if s.ops == nil || runID == 0 {
		return
	}
	if err := s.ops.Log(&runID, level, message, source); err != nil {
		log.Printf("Warning: failed to write run log: %v", err)
	}
}
