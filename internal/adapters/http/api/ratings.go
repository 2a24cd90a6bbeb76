package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/tracklist/internal/domain/model"
)

// RatingDependencies defines the interface for rating operations.
type RatingDependencies interface {
	SubmitRating(ctx context.Context, sub model.RatingSubmission) (model.Rating, error)
	Rating(ctx context.Context, trackID string) (*model.Rating, error)
}

// RatingsHandler handles rating requests.
type RatingsHandler struct {
	deps RatingDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

// HandleRatings dispatches POST /ratings and GET /ratings?track_id=...
func (h *RatingsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RatingsHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_rating"
	var req ratingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	rating, err := h.deps.SubmitRating(r.Context(), req.toModel())
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newRatingResponse(rating))
}

func (h *RatingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rating"
	rating, err := h.deps.Rating(r.Context(), r.URL.Query().Get("track_id"))
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	if rating == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, newRatingResponse(*rating))
}
