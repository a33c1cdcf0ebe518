package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"immofolio/api"
	"immofolio/config"
	"immofolio/extract"
	"immofolio/httputil"
	"immofolio/logging"
	"immofolio/scheduler"
	"immofolio/search"
	"immofolio/services"
	"immofolio/storage"
	"immofolio/workers"
)

var (
	searchNow  = flag.Bool("search", false, "Run saved searches once and exit")
	createUser = flag.String("create-user", "", "Create a user (username:password) and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("daemon.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting immofolio...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d site configs", len(cfg.Sites))
	for id, site := range cfg.Sites {
		log.Printf("  - %s (%s)", site.Name, id)
	}

	clients := httputil.NewClients()

	ctx := context.Background()

	pgStore, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()

	if err := pgStore.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.DatabaseURL))

	if *createUser != "" {
		username, password, ok := strings.Cut(*createUser, ":")
		if !ok || username == "" || password == "" {
			log.Fatal("expected -create-user username:password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user, err := pgStore.CreateUser(ctx, username, string(hash))
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		log.Printf("User created: %s (id %d)", user.Username, user.ID)
		return
	}

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	// Extraction pipeline: plain HTTP for most sources, a shared bounded
	// headless fetcher for the JS-rendered portals.
	plainFetcher := extract.NewHTTPFetcher(clients.Scraping)
	browserFetcher := extract.NewBrowserFetcher(int64(cfg.Browser.MaxSessions))
	defer browserFetcher.Close()

	extractor := extract.NewExtractor(plainFetcher, browserFetcher)
	annonceService := services.NewAnnonceService(pgStore, sqliteStore, extractor)

	var scrapers []*search.Scraper
	for _, site := range cfg.Sites {
		s, err := search.New(site, browserFetcher)
		if err != nil {
			log.Printf("Warning: skipping site %s: %v", site.ID, err)
			continue
		}
		scrapers = append(scrapers, s)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(cfg, pgStore, sqliteStore, annonceService, scrapers)

	if *searchNow {
		log.Println("Running saved searches...")
		if err := sched.RunAll(ctx); err != nil {
			log.Fatalf("Search run failed: %v", err)
		}
		log.Println("Search run complete!")
		return
	}

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	var uploader workers.Uploader = &workers.NoOpUploader{}
	if cfg.S3.Bucket != "" {
		s3Uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			log.Printf("Warning: S3 unavailable, images will not be archived: %v", err)
		} else {
			uploader = s3Uploader
			log.Printf("S3 image archiving enabled: bucket=%s", cfg.S3.Bucket)
		}
	}

	archiver := workers.NewImageArchiver(pgStore, clients.Media, uploader)
	go archiver.Run(ctx, 20, 2*time.Minute)
	log.Println("Image archiver started")

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.New(pgStore, annonceService, cfg.JWTSecret).Router(),
	}
	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	log.Println("Goodbye!")
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	// Simple mask - find :// and mask until @
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	// Find : after user
	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
