package extract

import (
	"strings"
	"testing"
)

func TestIsBlocked_Markers(t *testing.T) {
	pages := []string{
		`<html><script src="https://ct.datadome.co/tags.js"></script></html>`,
		`<html><iframe src="https://geo.captcha-delivery.com/captcha/"></iframe></html>`,
		`<html>Request unsuccessful. Incapsula incident ID: 42</html>`,
		`<html><body>Enable JavaScript and cookies to continue</body></html>`,
		`<html><body>Vous avez été bloqué</body></html>`,
		`<html><script>DataDome</script></html>`,
	}
	for _, page := range pages {
		if !IsBlocked(page, 200) {
			t.Errorf("expected blocked for page %q", page)
		}
	}
}

func TestIsBlocked_Short403(t *testing.T) {
	if !IsBlocked("<html>Forbidden</html>", 403) {
		t.Error("short 403 body without markers should be blocked")
	}
}

func TestIsBlocked_Long403NotBlocked(t *testing.T) {
	page := "<html>" + strings.Repeat("contenu légitime ", 500) + "</html>"
	if len(page) < shortBodyThreshold {
		t.Fatalf("fixture too short: %d", len(page))
	}
	if IsBlocked(page, 403) {
		t.Error("long 403 body without markers should not be blocked")
	}
}

func TestIsBlocked_NormalPage(t *testing.T) {
	if IsBlocked("<html><body>Bel appartement 3 pièces</body></html>", 200) {
		t.Error("normal page flagged as blocked")
	}
	if IsBlocked("", 200) {
		t.Error("empty 200 body flagged as blocked")
	}
}
