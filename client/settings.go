package client

import (
	"net/http"
	"time"
)

// Settings configures the HTTP collaborators.
type Settings struct {
	// RenderMajor selects the versioned endpoint prefix /_v/v<RenderMajor>.
	RenderMajor      int
	HTTPTimeout      time.Duration
	ConnectTimeout   time.Duration
	TLSTimeout       time.Duration
	MessageCacheSize int
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		RenderMajor:      8,
		HTTPTimeout:      60 * time.Second,
		ConnectTimeout:   5 * time.Second,
		TLSTimeout:       5 * time.Second,
		MessageCacheSize: 64,
	}
}

// httpClient never uses http.DefaultClient, which has no timeouts.
func httpClient(s Settings) *http.Client {
	return &http.Client{
		Transport: transport(s),
		Timeout:   s.HTTPTimeout,
	}
}
