package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"immofolio/config"
	"immofolio/models"
	"immofolio/search"
	"immofolio/services"
	"immofolio/storage"
)

// Scheduler re-runs saved search prompts against the configured portals,
// either on a cron expression or a fixed interval.
type Scheduler struct {
	cfg      *config.Config
	store    *storage.PostgresStore
	ops      *storage.SQLiteStore
	annonces *services.AnnonceService
	scrapers []*search.Scraper
	cron     *cron.Cron
	ticker   *time.Ticker
	stopCh   chan struct{}
}

func New(cfg *config.Config, store *storage.PostgresStore, ops *storage.SQLiteStore, annonces *services.AnnonceService, scrapers []*search.Scraper) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		store:    store,
		ops:      ops,
		annonces: annonces,
		scrapers: scrapers,
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting search scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			if err := s.RunAll(ctx); err != nil {
				log.Printf("Scheduled search error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting search scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.RunAll(ctx); err != nil {
						log.Printf("Scheduled search error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No search schedule configured")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// RunAll runs every active prompt through every configured portal.
func (s *Scheduler) RunAll(ctx context.Context) error {
	prompts, err := s.store.ListActiveSearchPrompts(ctx)
	if err != nil {
		return fmt.Errorf("list prompts: %w", err)
	}

	for _, prompt := range prompts {
		for _, scraper := range s.scrapers {
			s.runSearch(ctx, scraper, prompt)
		}
		if err := s.store.TouchSearchPrompt(ctx, prompt.ID, time.Now()); err != nil {
			log.Printf("Warning: failed to touch prompt %d: %v", prompt.ID, err)
		}
	}

	return nil
}

func (s *Scheduler) runSearch(ctx context.Context, scraper *search.Scraper, prompt models.SearchPrompt) {
	run := &models.ExtractRun{
		Kind:      models.RunKindSearch,
		Source:    scraper.ID(),
		Target:    prompt.Prompt,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := s.ops.CreateRun(run)
	if err != nil {
		log.Printf("Warning: failed to record search run: %v", err)
	}
	run.ID = runID

	hits, err := scraper.Search(ctx, prompt.Prompt)
	if err != nil {
		log.Printf("[%s] Search error for %q: %v", scraper.ID(), prompt.Prompt, err)
		run.Status = models.RunStatusFailed
		run.ErrorsCount = 1
	} else {
		created, err := s.annonces.SaveSearchHits(ctx, hits)
		if err != nil {
			log.Printf("[%s] Save error for %q: %v", scraper.ID(), prompt.Prompt, err)
			run.ErrorsCount = 1
		}
		run.Status = models.RunStatusCompleted
		run.ListingsNew = created
		log.Printf("[%s] Prompt %q: %d hits, %d new", scraper.ID(), prompt.Prompt, len(hits), created)
	}

	now := time.Now()
	run.FinishedAt = &now
	if runID != 0 {
		if err := s.ops.UpdateRun(run); err != nil {
			log.Printf("Warning: failed to update search run: %v", err)
		}
	}
}
