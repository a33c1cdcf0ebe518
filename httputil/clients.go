package httputil

import (
	"net/http"
	"time"
)

// Clients bundles the tuned HTTP clients the app shares. Scraping is the
// plain-fetch strategy client: 15s hard deadline, redirects followed.
// Media has a longer timeout for image downloads.
type Clients struct {
	Scraping *http.Client
	Media    *http.Client
}

func NewClients() *Clients {
	return &Clients{
		Scraping: &http.Client{
			Timeout: 15 * time.Second,
		},
		Media: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}
