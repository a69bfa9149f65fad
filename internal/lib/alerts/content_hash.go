package alerts

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile(`[.,;:!?()-]`)
	clockTimeRe   = regexp.MustCompile(`at \d{1,2}:\d{2}`)
)

// ContentHasher derives content-based keys for alert deduplication, so the
// same condition re-reported with minor text variations reuses one
// enhancement.
type ContentHasher struct{}

// NewContentHasher creates a content hasher.
func NewContentHasher() *ContentHasher {
	return &ContentHasher{}
}

// HashAlert creates a content hash over the fields that identify the
// underlying condition. Acknowledgement state and raise time are excluded;
// they change without the condition changing.
func (h *ContentHasher) HashAlert(alert Alert) string {
	signature := fmt.Sprintf("%s|%s|%s|%s",
		alert.DeviceID,
		string(alert.Severity),
		h.normalizeText(alert.Message),
		h.normalizeText(alert.Location),
	)

	hash := sha256.Sum256([]byte(signature))
	return fmt.Sprintf("%x", hash)
}

// normalizeText cleans text for consistent hashing.
func (h *ContentHasher) normalizeText(text string) string {
	normalized := strings.ToLower(text)
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	normalized = punctuationRe.ReplaceAllString(normalized, "")
	// Clock times vary between re-reports of the same condition.
	normalized = clockTimeRe.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}
