package workers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"immofolio/storage"
)

// Uploader is the S3-compatible sink for archived images.
type Uploader interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
}

// ImageArchiver downloads annonce cover images and stores them under a
// content-addressed key, so a listing's photo survives the listing being
// pulled from the portal.
type ImageArchiver struct {
	store      *storage.PostgresStore
	httpClient *http.Client
	uploader   Uploader
}

func NewImageArchiver(store *storage.PostgresStore, httpClient *http.Client, uploader Uploader) *ImageArchiver {
	return &ImageArchiver{store: store, httpClient: httpClient, uploader: uploader}
}

// Run processes pending images in batches until the context is cancelled.
func (w *ImageArchiver) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Image archiver stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx, batchSize)
		}
	}
}

func (w *ImageArchiver) processBatch(ctx context.Context, batchSize int) {
	annonces, err := w.store.ListAnnoncesPendingImage(ctx, batchSize)
	if err != nil {
		log.Printf("Image archiver: query error: %v", err)
		return
	}
	if len(annonces) == 0 {
		return
	}

	log.Printf("Image archiver: processing %d images", len(annonces))

	for i := range annonces {
		a := &annonces[i]
		key, err := w.archive(ctx, *a.ImageURL)
		if err != nil {
			log.Printf("Image archiver: failed %s: %v", *a.ImageURL, err)
			continue
		}
		if err := w.store.SetAnnonceImageKey(ctx, a.ID, key); err != nil {
			log.Printf("Image archiver: failed to update %s: %v", a.ID, err)
			continue
		}
		log.Printf("Image archiver: archived %s -> %s", a.ID, key)

		// Rate limit between downloads
		time.Sleep(200 * time.Millisecond)
	}
}

// archive downloads one image and uploads it as
// images/{hash_prefix}/{hash}{ext}.
func (w *ImageArchiver) archive(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "image/*,*/*")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	hash := sha256.Sum256(data)
	digest := hex.EncodeToString(hash[:])
	key := fmt.Sprintf("images/%s/%s%s", digest[:2], digest, guessExtension(imageURL, resp.Header.Get("Content-Type")))

	if w.uploader != nil {
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}
		if err := w.uploader.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
			return "", fmt.Errorf("upload: %w", err)
		}
	}

	return key, nil
}

func guessExtension(rawURL, contentType string) string {
	ext := strings.ToLower(path.Ext(rawURL))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// NoOpUploader drains uploads without storing them, for running without
// S3 credentials.
type NoOpUploader struct{}

func (u *NoOpUploader) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	io.Copy(io.Discard, data)
	return nil
}
