package api

import (
	"context"
	"net/http"

	"github.com/okian/tracklist/internal/adapters/catalog"
)

// SearchDependencies defines the interface for catalog search.
type SearchDependencies interface {
	Search(ctx context.Context, query string) ([]catalog.Album, error)
}

// SearchHandler handles catalog search requests.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles GET /search?query=... requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	albums, err := h.deps.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}
