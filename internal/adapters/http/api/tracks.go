package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/tracklist/internal/domain/model"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// TrackDependencies defines the interface for track classification.
type TrackDependencies interface {
	ClassifyTrack(ctx context.Context, req model.ClassifyRequest) (model.Track, error)
	Track(ctx context.Context, trackID string) (*model.Track, error)
}

// TracksHandler handles track requests.
type TracksHandler struct {
	deps TrackDependencies
}

// NewTracksHandler creates a new tracks handler.
func NewTracksHandler(deps TrackDependencies) *TracksHandler {
	return &TracksHandler{deps: deps}
}

// HandleTracks dispatches POST /tracks and GET /tracks?track_id=...
func (h *TracksHandler) HandleTracks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *TracksHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify_track"
	var req classifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	track, err := h.deps.ClassifyTrack(r.Context(), req.toModel())
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newTrackResponse(track))
}

func (h *TracksHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_track"
	track, err := h.deps.Track(r.Context(), r.URL.Query().Get("track_id"))
	if err != nil {
		respondError(w, r, op, err)
		return
	}
	if track == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, newTrackResponse(*track))
}
