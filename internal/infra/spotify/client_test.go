package spotify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zmb3/spotify/v2"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Spotify URI format",
			input:    "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Spotify URL format",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Spotify URL with query params",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Plain playlist ID",
			input:    "37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "HTTP URL (not HTTPS)",
			input:    "http://open.spotify.com/playlist/testID",
			expected: "testID",
		},
		{
			name:     "URL with multiple query params",
			input:    "https://open.spotify.com/playlist/abc123?si=xyz&utm_source=copy",
			expected: "abc123",
		},
		{
			name:     "Localized URL with trailing slash",
			input:    "https://open.spotify.com/intl-pt/playlist/abc123/",
			expected: "abc123",
		},
		{
			name:     "Whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractPlaylistID(tt.input)
			assert.Equal(t, tt.expected, result,
				"extractPlaylistID(%s) should return %s", tt.input, tt.expected)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "rate limit error with 429",
			err:      errors.New("Error 429: rate limit exceeded"),
			expected: true,
		},
		{
			name:     "rate limit text",
			err:      errors.New("rate limit exceeded"),
			expected: true,
		},
		{
			name:     "server error 500",
			err:      errors.New("Error 500: internal server error"),
			expected: true,
		},
		{
			name:     "server error 502",
			err:      errors.New("502 Bad Gateway"),
			expected: true,
		},
		{
			name:     "server error 503",
			err:      errors.New("503 Service Unavailable"),
			expected: true,
		},
		{
			name:     "server error 504",
			err:      errors.New("504 Gateway Timeout"),
			expected: true,
		},
		{
			name:     "client error 400",
			err:      errors.New("400 Bad Request"),
			expected: false,
		},
		{
			name:     "not found error",
			err:      errors.New("404 not found"),
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: false,
		},
		{
			name:     "api error 429",
			err:      spotify.Error{Message: "too many requests", Status: 429},
			expected: true,
		},
		{
			name:     "wrapped api error 503",
			err:      fmt.Errorf("get playlist: %w", spotify.Error{Message: "unavailable", Status: 503}),
			expected: true,
		},
		{
			name:     "api error 404",
			err:      spotify.Error{Message: "not found", Status: 404},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRetryable(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConvertTrack(t *testing.T) {
	c := &Client{market: "BR"}

	ft := &spotify.FullTrack{}
	ft.ID = "4uLU6hMCjMI75M1A2tKUQC"
	ft.Name = "Caminho de Emaús"
	ft.Duration = 185001
	ft.Artists = []spotify.SimpleArtist{{Name: "Dupla A"}, {Name: "Dupla B"}}

	got := c.convertTrack(ft)

	assert.Equal(t, "spotify:4uLU6hMCjMI75M1A2tKUQC", got.ID)
	assert.Equal(t, "Caminho de Emaús", got.Title)
	assert.Equal(t, "Dupla A, Dupla B", got.Description)
	assert.Equal(t, 186, got.Duration)
	assert.Equal(t, "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", got.AudioURL)
	assert.NoError(t, got.Validate())

	ft.PreviewURL = "https://p.scdn.co/mp3-preview/abc"
	assert.Equal(t, "https://p.scdn.co/mp3-preview/abc", c.convertTrack(ft).AudioURL)
}

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		ms   int
		want int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{1000, 1},
		{1001, 2},
		{240000, 240},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, durationSeconds(tt.ms), "durationSeconds(%d)", tt.ms)
	}
}
