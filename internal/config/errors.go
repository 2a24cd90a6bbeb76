package config

import "errors"

// Sentinel kinds returned by Load and Validate; match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// ErrPartialCredentials is wrapped together with ErrInvalidConfig when
	// only one of the Spotify client id and secret is set.
	ErrPartialCredentials = errors.New("spotify client id and secret must be set together")
)
