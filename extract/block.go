package extract

import "strings"

// shortBodyThreshold separates a 403 challenge shell from a legitimate
// error page. Short 403 bodies are a strong blocked signal; long ones are
// treated leniently as real content to avoid false positives.
const shortBodyThreshold = 5000

// blockMarkers are substrings that only appear on anti-bot challenge pages,
// matched case-insensitively against the fetched HTML.
var blockMarkers = []string{
	"datadome",
	"captcha-delivery.com",
	"geo.captcha-delivery.com",
	"_incapsula_resource",
	"incapsula incident id",
	"request unsuccessful. incapsula",
	"cf-challenge",
	"challenge-platform",
	"enable javascript and cookies to continue",
	"vous avez été bloqué",
	"activez javascript",
}

// IsBlocked classifies a fetched page as an anti-bot challenge. Blocked
// pages must not be parsed: captcha markup produces garbage fields.
func IsBlocked(html string, statusCode int) bool {
	lower := strings.ToLower(html)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return statusCode == 403 && len(html) < shortBodyThreshold
}
