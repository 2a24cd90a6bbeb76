// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/tracklist/internal/adapters/catalog"
	"github.com/okian/tracklist/internal/adapters/repository"
	"github.com/okian/tracklist/internal/domain/collection"
	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SearchDependencies
	TrackDependencies
	RatingDependencies
	AlbumDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	searchHandler  *SearchHandler
	tracksHandler  *TracksHandler
	ratingsHandler *RatingsHandler
	albumsHandler  *AlbumsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(nil),
		statsHandler:   NewStatsHandler(statsProvider),
		searchHandler:  NewSearchHandler(deps),
		tracksHandler:  NewTracksHandler(deps),
		ratingsHandler: NewRatingsHandler(deps),
		albumsHandler:  NewAlbumsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/search", "search", s.searchHandler.HandleSearch)
	route("/tracks", "tracks", s.tracksHandler.HandleTracks)
	route("/ratings", "ratings", s.ratingsHandler.HandleRatings)
	route("/albums/rating", "album_rating", s.albumsHandler.HandleAlbumRating)
	route("/albums/rated", "rated_albums", s.albumsHandler.HandleRatedAlbums)
	route("/albums/facets", "album_facets", s.albumsHandler.HandleFacets)
	route("/albums/catalog", "catalog_album", s.albumsHandler.HandleCatalogAlbum)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		model.IsValidationError(err),
		errors.Is(err, catalog.ErrEmptyQuery),
		errors.Is(err, collection.ErrInvalidSortKey),
		errors.Is(err, collection.ErrInvalidOrder):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, catalog.ErrAlbumNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrCatalogDisabled):
		return http.StatusServiceUnavailable, "catalog_disabled"
	case errors.Is(err, catalog.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError logs err and writes the matching error body. Server-side
// failures hide their cause from the client.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	ctx := r.Context()
	log := requestLogger(ctx)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("op", op), logger.Int("status", status), logger.Error(err))
		if status == http.StatusInternalServerError {
			writeError(w, status, code, nil)
			return
		}
	} else {
		log.Debug(ctx, "request rejected", logger.String("op", op), logger.Int("status", status), logger.Error(err))
	}
	writeError(w, status, code, Wrap(op, err))
}
