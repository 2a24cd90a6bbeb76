package service

import (
	"time"

	"golang.org/x/text/language"

	"github.com/okian/tracklist/internal/adapters/catalog"
	"github.com/okian/tracklist/internal/adapters/repository"
	"github.com/okian/tracklist/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreDriver selects the store opened on Start: "memory" or "sqlite".
func WithStoreDriver(driver, databasePath string) Option {
	return func(s *Service) {
		if driver != "" {
			s.storeDriver = driver
		}
		s.databasePath = databasePath
	}
}

// WithStore injects an already opened store; Start will not open another.
// The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithCatalog injects the catalog used for searches.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithSpotifyCredentials enables the Spotify catalog when no catalog is
// injected. Empty credentials leave search disabled.
func WithSpotifyCredentials(clientID, clientSecret string) Option {
	return func(s *Service) {
		s.spotifyClientID = clientID
		s.spotifyClientSecret = clientSecret
	}
}

// WithSearchLimit sets how many albums a catalog search returns.
func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithCatalogTimeout bounds each catalog operation.
func WithCatalogTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.catalogTimeout = d
		}
	}
}

// WithCollationLanguage sets the language used to sort names and artists.
func WithCollationLanguage(tag language.Tag) Option {
	return func(s *Service) {
		s.language = tag
	}
}
