package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPFetcher_SendsBrowserHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("unexpected User-Agent: %s", ua)
		}
		if al := r.Header.Get("Accept-Language"); !strings.HasPrefix(al, "fr-FR") {
			t.Errorf("unexpected Accept-Language: %s", al)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	res, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.StatusCode != 200 || res.HTML != "<html>ok</html>" {
		t.Fatalf("unexpected result: %d %q", res.StatusCode, res.HTML)
	}
}

func TestHTTPFetcher_Returns403Body(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html>blocked shell</html>"))
	}))
	defer srv.Close()

	res, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("non-200 statuses must not be fetch errors: %v", err)
	}
	if res.StatusCode != 403 {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
	if res.HTML == "" {
		t.Fatal("403 body must be kept for block detection")
	}
}

func TestHTTPFetcher_RejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not":"html"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrNotHTML) {
		t.Fatalf("expected ErrNotHTML, got %v", err)
	}
}
