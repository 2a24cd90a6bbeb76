// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/okian/tracklist/internal/adapters/catalog"
	"github.com/okian/tracklist/internal/adapters/repository"
	"github.com/okian/tracklist/internal/domain/collection"
	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/internal/domain/scoring"
	"github.com/okian/tracklist/internal/domain/types"
	"github.com/okian/tracklist/pkg/logger"
	"github.com/okian/tracklist/pkg/metrics"
)

// Store drivers understood by Start.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Rejection reasons reported to metrics.
const (
	reasonMissingTrackID = "missing_track_id"
	reasonMissingDim     = "missing_dimension"
	reasonOutOfRange     = "out_of_range"
	reasonTrackNotFound  = "track_not_found"
	reasonMissingAlbumID = "missing_album_id"
	reasonStoreFailure   = "store_error"
)

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	catalog catalog.Catalog
	engine  *collection.Engine

	// Configuration
	storeDriver         string
	databasePath        string
	spotifyClientID     string
	spotifyClientSecret string
	searchLimit         int
	catalogTimeout      time.Duration
	language            language.Tag

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeDriver:    DriverMemory,
		searchLimit:    catalog.DefaultSearchLimit,
		catalogTimeout: catalog.DefaultTimeout,
		language:       language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and the catalog.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rating service...")

	if s.store == nil {
		store, err := openStore(s.storeDriver, s.databasePath)
		if err != nil {
			return err
		}
		s.store = store
		s.logger.Info(ctx, "store opened",
			logger.String("driver", s.storeDriver),
			logger.String("path", s.databasePath),
		)
	}

	if s.catalog == nil {
		if s.spotifyClientID != "" && s.spotifyClientSecret != "" {
			s.catalog = catalog.NewSpotify(context.WithoutCancel(ctx), s.spotifyClientID, s.spotifyClientSecret,
				catalog.WithSearchLimit(s.searchLimit),
				catalog.WithTimeout(s.catalogTimeout),
				catalog.WithLogger(s.logger.Named("catalog")),
			)
		} else {
			s.catalog = catalog.Disabled{}
			s.logger.Warn(ctx, "catalog credentials missing; search disabled")
		}
	}

	s.engine = collection.NewEngine(collection.WithLanguage(s.language))
	s.started = true

	counts := s.store.Count(ctx)
	metrics.UpdateStoreCounts(counts.Albums, counts.Tracks, counts.Ratings)
	s.logger.Info(ctx, "rating service started",
		logger.Int("albums", counts.Albums),
		logger.Int("tracks", counts.Tracks),
		logger.Int("ratings", counts.Ratings),
		logger.String("collation", s.language.String()),
	)
	return nil
}

func openStore(driver, path string) (repository.Store, error) {
	switch driver {
	case DriverMemory:
		return repository.NewMemoryStore(), nil
	case DriverSQLite:
		return repository.NewSQLStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownDriver, driver)
	}
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping rating service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "failed to close store", logger.Error(err))
		}
		s.store = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// components returns the running store, catalog and engine.
func (s *Service) components() (repository.Store, catalog.Catalog, *collection.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.store, s.catalog, s.engine, nil
}

// SubmitRating validates a submission and upserts the rating of its track.
//
// Checks run in order: track id, each dimension, track existence. The
// stored record replaces any previous one as a whole.
func (s *Service) SubmitRating(ctx context.Context, sub model.RatingSubmission) (model.Rating, error) {
	store, _, _, err := s.components()
	if err != nil {
		return model.Rating{}, err
	}

	dims, err := sub.Validate()
	if err != nil {
		metrics.RecordRatingRejected(rejectionReason(err))
		return model.Rating{}, err
	}

	track, err := store.GetTrack(ctx, sub.TrackID)
	if err != nil {
		metrics.RecordRatingRejected(reasonStoreFailure)
		return model.Rating{}, fmt.Errorf("submit rating: %w", err)
	}
	if track == nil {
		metrics.RecordRatingRejected(reasonTrackNotFound)
		return model.Rating{}, fmt.Errorf("track %s: %w", sub.TrackID, repository.ErrNotFound)
	}

	rating, err := store.UpsertRating(ctx, sub.TrackID, dims, sub.Notes)
	if err != nil {
		metrics.RecordRatingRejected(reasonStoreFailure)
		return model.Rating{}, fmt.Errorf("submit rating: %w", err)
	}
	metrics.RecordRatingSubmitted()
	s.refreshCounts(ctx, store)
	return rating, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingTrackID):
		return reasonMissingTrackID
	case errors.Is(err, model.ErrMissingAlbumID):
		return reasonMissingAlbumID
	case errors.Is(err, model.ErrMissingDimension):
		return reasonMissingDim
	default:
		return reasonOutOfRange
	}
}

// ClassifyTrack creates a track from its snapshots or updates its skit flag.
// It never touches the track's rating.
func (s *Service) ClassifyTrack(ctx context.Context, req model.ClassifyRequest) (model.Track, error) {
	store, _, _, err := s.components()
	if err != nil {
		return model.Track{}, err
	}
	if err := req.Validate(); err != nil {
		return model.Track{}, err
	}

	track, err := store.UpsertTrackClassification(ctx, req.Album, req.Track, req.IsSkitOrInterlude)
	if err != nil {
		return model.Track{}, fmt.Errorf("classify track: %w", err)
	}
	metrics.RecordClassification(track.IsSkitOrInterlude)
	s.refreshCounts(ctx, store)
	return track, nil
}

// Track returns a stored track, or nil when it is unknown.
func (s *Service) Track(ctx context.Context, trackID string) (*model.Track, error) {
	store, _, _, err := s.components()
	if err != nil {
		return nil, err
	}
	if trackID == "" {
		return nil, model.ErrMissingTrackID
	}
	return store.GetTrack(ctx, trackID)
}

// Rating returns the rating of a track, or nil when it has none.
func (s *Service) Rating(ctx context.Context, trackID string) (*model.Rating, error) {
	store, _, _, err := s.components()
	if err != nil {
		return nil, err
	}
	if trackID == "" {
		return nil, model.ErrMissingTrackID
	}
	return store.GetRating(ctx, trackID)
}

// AlbumRating computes the album score and the per-track scores. An
// unknown album yields an unrated report, not an error.
func (s *Service) AlbumRating(ctx context.Context, albumID string) (types.AlbumReport, error) {
	store, _, _, err := s.components()
	if err != nil {
		return types.AlbumReport{}, err
	}
	if albumID == "" {
		return types.AlbumReport{}, model.ErrMissingAlbumID
	}

	report := types.AlbumReport{AlbumID: albumID, Tracks: []types.TrackScore{}}
	album, tracks, err := store.AlbumTracks(ctx, albumID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordAlbumComputation(false)
		return report, nil
	}
	if err != nil {
		return types.AlbumReport{}, fmt.Errorf("album rating: %w", err)
	}

	report.Album = &album
	report.Aggregate = scoring.AlbumScore(tracks)
	for _, t := range tracks {
		if scoring.Eligible(t) {
			report.Tracks = append(report.Tracks, types.TrackScore{Track: t.Track, Score: scoring.TrackScore(*t.Rating)})
		}
	}
	metrics.RecordAlbumComputation(report.Aggregate.Rated())
	return report, nil
}

// RatedAlbums returns the albums with at least one rated, ratable track,
// filtered and ordered by q.
func (s *Service) RatedAlbums(ctx context.Context, q collection.Query) ([]collection.Entry, error) {
	_, _, engine, err := s.components()
	if err != nil {
		return nil, err
	}
	entries, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	out := engine.Apply(entries, q)
	metrics.RecordCollectionQuery(string(q.SortBy), string(q.Order), len(out))
	return out, nil
}

// Facets lists the release decades and years present in the collection.
func (s *Service) Facets(ctx context.Context) (decades, years []int, err error) {
	entries, err := s.collection(ctx)
	if err != nil {
		return nil, nil, err
	}
	decades, years = collection.Facets(entries)
	if decades == nil {
		decades = []int{}
	}
	if years == nil {
		years = []int{}
	}
	return decades, years, nil
}

// collection builds an entry for every album holding a score.
func (s *Service) collection(ctx context.Context) ([]collection.Entry, error) {
	store, _, _, err := s.components()
	if err != nil {
		return nil, err
	}
	albums, err := store.RatedAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("rated albums: %w", err)
	}

	entries := make([]collection.Entry, 0, len(albums))
	for _, a := range albums {
		agg := scoring.AlbumScore(a.Tracks)
		metrics.RecordAlbumComputation(agg.Rated())
		// Albums whose only ratings sit on skits have no score.
		if !agg.Rated() {
			continue
		}
		entries = append(entries, collection.Entry{Album: a.Album, Aggregate: agg})
	}
	return entries, nil
}

// Search looks albums up in the catalog.
func (s *Service) Search(ctx context.Context, query string) ([]catalog.Album, error) {
	_, cat, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return cat.SearchAlbums(ctx, query)
}

// CatalogAlbum fetches one album with its tracklist from the catalog.
func (s *Service) CatalogAlbum(ctx context.Context, albumID string) (catalog.Album, error) {
	_, cat, _, err := s.components()
	if err != nil {
		return catalog.Album{}, err
	}
	if albumID == "" {
		return catalog.Album{}, model.ErrMissingAlbumID
	}
	return cat.Album(ctx, albumID)
}

func (s *Service) refreshCounts(ctx context.Context, store repository.Store) {
	c := store.Count(ctx)
	metrics.UpdateStoreCounts(c.Albums, c.Tracks, c.Ratings)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, disabled := s.catalog.(catalog.Disabled)
	stats := map[string]interface{}{
		"started":        s.started,
		"storeDriver":    s.storeDriver,
		"catalogEnabled": s.catalog != nil && !disabled,
		"searchLimit":    s.searchLimit,
		"collation":      s.language.String(),
	}

	if s.started {
		c := s.store.Count(context.Background())
		stats["albums"] = c.Albums
		stats["tracks"] = c.Tracks
		stats["ratings"] = c.Ratings
		metrics.UpdateStoreCounts(c.Albums, c.Tracks, c.Ratings)
	}
	return stats
}
