// Package links classifies inbound links and parses Instagram post identifiers
package links

import (
	"strings"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

var (
	youtubeHosts   = []string{"youtube.com", "youtu.be"}
	instagramHosts = []string{"instagram.com"}

	// checked in this order
	shortcodeMarkers = []string{"/reel/", "/p/", "/reels/"}
)

// IsHTTPLink reports whether text starts with an http or https scheme
func IsHTTPLink(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// Classify maps a raw string to a platform by host fragment substring.
// Malformed URLs are classified by substring alone.
func Classify(raw string) entities.Platform {
	switch {
	case containsAny(raw, youtubeHosts):
		return entities.PlatformYouTube
	case containsAny(raw, instagramHosts):
		return entities.PlatformInstagram
	default:
		return entities.PlatformUnsupported
	}
}

// ExtractShortcode returns the post identifier of an Instagram link.
// It is a best-effort parser: /reel/, /p/ and /reels/ paths are recognised,
// otherwise the second-to-last path segment is used for long enough URLs.
func ExtractShortcode(raw string) (string, bool) {
	for _, marker := range shortcodeMarkers {
		idx := strings.LastIndex(raw, marker)
		if idx < 0 {
			continue
		}
		return shortcode(trimSegment(raw[idx+len(marker):]))
	}

	parts := strings.Split(raw, "/")
	if len(parts) <= 4 {
		return "", false
	}
	return shortcode(parts[len(parts)-2])
}

// trimSegment cuts the first path segment and drops any query suffix
func trimSegment(s string) string {
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	return s
}

// shortcode accepts only the URL-safe alphabet Instagram uses for shortcodes
func shortcode(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '_' && r != '-' {
			return "", false
		}
	}
	return s, true
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
