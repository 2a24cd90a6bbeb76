package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/tracklist/internal/adapters/catalog"
	"github.com/okian/tracklist/internal/domain/collection"
	"github.com/okian/tracklist/internal/domain/types"
)

// AlbumDependencies defines the interface for album reads.
type AlbumDependencies interface {
	AlbumRating(ctx context.Context, albumID string) (types.AlbumReport, error)
	RatedAlbums(ctx context.Context, q collection.Query) ([]collection.Entry, error)
	Facets(ctx context.Context) (decades, years []int, err error)
	CatalogAlbum(ctx context.Context, albumID string) (catalog.Album, error)
}

// AlbumsHandler handles album requests.
type AlbumsHandler struct {
	deps AlbumDependencies
}

// NewAlbumsHandler creates a new albums handler.
func NewAlbumsHandler(deps AlbumDependencies) *AlbumsHandler {
	return &AlbumsHandler{deps: deps}
}

// HandleAlbumRating handles GET /albums/rating?album_id=... requests.
func (h *AlbumsHandler) HandleAlbumRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.album_rating"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.AlbumRating(r.Context(), r.URL.Query().Get("album_id"))
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newAlbumRatingResponse(report))
}

// HandleRatedAlbums handles GET /albums/rated with optional name, year,
// decade, genre, sort_by and sort_order parameters.
func (h *AlbumsHandler) HandleRatedAlbums(w http.ResponseWriter, r *http.Request) {
	const op = "api.rated_albums"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseCollectionQuery(r.URL.Query())
	if err != nil {
		respondError(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := h.deps.RatedAlbums(r.Context(), q)
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newRatedAlbumsResponse(entries))
}

// HandleFacets handles GET /albums/facets requests.
func (h *AlbumsHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	const op = "api.album_facets"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	decades, years, err := h.deps.Facets(r.Context())
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, facetsResponse{Decades: decades, Years: years})
}

// HandleCatalogAlbum handles GET /albums/catalog?album_id=... requests.
func (h *AlbumsHandler) HandleCatalogAlbum(w http.ResponseWriter, r *http.Request) {
	const op = "api.catalog_album"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	album, err := h.deps.CatalogAlbum(r.Context(), r.URL.Query().Get("album_id"))
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func parseCollectionQuery(v url.Values) (collection.Query, error) {
	q := collection.Query{
		Name:  v.Get("name"),
		Genre: v.Get("genre"),
	}
	var err error
	if q.Year, err = optionalInt(v, "year"); err != nil {
		return collection.Query{}, err
	}
	if q.Decade, err = optionalInt(v, "decade"); err != nil {
		return collection.Query{}, err
	}
	if q.SortBy, err = collection.ParseSortKey(v.Get("sort_by")); err != nil {
		return collection.Query{}, err
	}
	if q.Order, err = collection.ParseOrder(v.Get("sort_order")); err != nil {
		return collection.Query{}, err
	}
	return q, nil
}

// optionalInt parses an integer parameter; absent or "all" means no filter.
func optionalInt(v url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return &n, nil
}
