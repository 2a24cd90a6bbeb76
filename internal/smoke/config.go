// Package smoke drives a running tracklist service end to end: it saves
// generated albums, rates their tracks, flips a skit flag and verifies the
// scores the service reports against locally computed ones.
package smoke

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid smoke config")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Albums         int           // Number of albums to generate
	TracksPerAlbum int           // Tracks per generated album
	Workers        int           // Concurrent HTTP workers
	Timeout        time.Duration // Per-request timeout
	Seed           uint64        // Seed for the generated plan
	OutputFile     string        // Optional JSON dump of the plan
	Verbose        bool
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("%w: url: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.Albums < 1:
		return fmt.Errorf("%w: albums must be positive", ErrInvalidConfig)
	case c.TracksPerAlbum < minTracksPerAlbum:
		return fmt.Errorf("%w: tracks per album must be at least %d", ErrInvalidConfig, minTracksPerAlbum)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	TracksSaved    int64
	RatingsSaved   int64
	Failed         int64
	AlbumsVerified int
	CollectionSize int
	SkitToggled    bool
	StartTime      time.Time
	Duration       time.Duration
}
