package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  entities.Platform
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", entities.PlatformYouTube},
		{"https://youtu.be/dQw4w9WgXcQ", entities.PlatformYouTube},
		{"https://m.youtube.com/shorts/abc", entities.PlatformYouTube},
		{"youtube.com", entities.PlatformYouTube},
		{"https://www.instagram.com/reel/XYZ9/", entities.PlatformInstagram},
		{"instagram.com/p/ABC", entities.PlatformInstagram},
		{"https://vimeo.com/123", entities.PlatformUnsupported},
		{"hello", entities.PlatformUnsupported},
		{"", entities.PlatformUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestIsHTTPLink(t *testing.T) {
	assert.True(t, IsHTTPLink("https://youtu.be/x"))
	assert.True(t, IsHTTPLink("http://instagram.com/p/x"))
	assert.False(t, IsHTTPLink("youtu.be/x"))
	assert.False(t, IsHTTPLink("hello"))
	assert.False(t, IsHTTPLink("ftp://example.com"))
}

func TestExtractShortcode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"post", "https://instagram.com/p/ABC123/", "ABC123", true},
		{"reel with query", "https://instagram.com/reel/XYZ9?utm=x", "XYZ9", true},
		{"reels", "https://www.instagram.com/reels/Qwe_-1/", "Qwe_-1", true},
		{"post with query and trailing slash", "https://www.instagram.com/p/C1d2E3/?igsh=abc", "C1d2E3", true},
		{"reel preferred over p", "https://www.instagram.com/reel/R1/p/P1/", "R1", true},
		{"fallback second to last segment", "https://www.instagram.com/someone/tv123/", "tv123", true},
		{"too short", "https://instagram.com/abc", "", false},
		{"marker without id", "https://instagram.com/p/", "", false},
		{"not a url", "instagram", "", false},
		{"dot segment", "https://instagram.com/p/../", "", false},
		{"escaped separator", "https://www.instagram.com/p/a%2Fb/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractShortcode(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
