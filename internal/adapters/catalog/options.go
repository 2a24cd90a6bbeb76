package catalog

import (
	"time"

	"github.com/okian/tracklist/pkg/logger"
)

// Default lookup settings.
const (
	DefaultSearchLimit = 10
	DefaultTimeout     = 10 * time.Second
	// maxSearchLimit is the catalog's page size ceiling.
	maxSearchLimit = 50
)

// Option applies a configuration option to the Spotify catalog.
type Option func(*Spotify)

// WithSearchLimit sets how many albums a search returns (1-50).
func WithSearchLimit(n int) Option {
	return func(s *Spotify) {
		if n > 0 && n <= maxSearchLimit {
			s.limit = n
		}
	}
}

// WithTimeout bounds each catalog operation, including its track fetches.
func WithTimeout(d time.Duration) Option {
	return func(s *Spotify) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for upstream failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Spotify) {
		if l != nil {
			s.log = l
		}
	}
}
