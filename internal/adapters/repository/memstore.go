package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/pkg/metrics"
)

const memoryDriver = "memory"

// MemoryStore is an in-memory Store guarded by a single RWMutex.
//
// Values are stored and returned as copies, so callers never share state
// with the store or with each other.
type MemoryStore struct {
	mu      sync.RWMutex
	albums  map[string]model.Album
	tracks  map[string]model.Track
	ratings map[string]model.Rating
	// byAlbum indexes track ids per album id.
	byAlbum map[string][]string

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		albums:  make(map[string]model.Album),
		tracks:  make(map[string]model.Track),
		ratings: make(map[string]model.Rating),
		byAlbum: make(map[string][]string),
		now:     o.now,
	}
}

// GetRating implements RatingStore.GetRating.
func (s *MemoryStore) GetRating(ctx context.Context, trackID string) (*model.Rating, error) {
	defer observe(memoryDriver, "get_rating", time.Now(), nil)

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[trackID]
	if !ok {
		return nil, nil
	}
	r.Notes = cloneString(r.Notes)
	return &r, nil
}

// UpsertRating implements RatingStore.UpsertRating. The new record is
// built outside the lock and swapped in with a single map write.
func (s *MemoryStore) UpsertRating(ctx context.Context, trackID string, dims model.Dimensions, notes *string) (model.Rating, error) {
	defer observe(memoryDriver, "upsert_rating", time.Now(), nil)

	now := s.now()
	next := model.Rating{
		TrackID:    trackID,
		Dimensions: dims,
		Notes:      cloneString(notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	if prev, ok := s.ratings[trackID]; ok {
		next.CreatedAt = prev.CreatedAt
	}
	s.ratings[trackID] = next
	s.mu.Unlock()

	next.Notes = cloneString(next.Notes)
	return next, nil
}

// GetTrack implements TrackStore.GetTrack.
func (s *MemoryStore) GetTrack(ctx context.Context, trackID string) (*model.Track, error) {
	defer observe(memoryDriver, "get_track", time.Now(), nil)

	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tracks[trackID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// UpsertTrackClassification implements TrackStore.UpsertTrackClassification.
func (s *MemoryStore) UpsertTrackClassification(ctx context.Context, album model.AlbumSnapshot, track model.TrackSnapshot, isSkit *bool) (model.Track, error) {
	defer observe(memoryDriver, "upsert_track", time.Now(), nil)

	albumCreated := false
	s.mu.Lock()
	if _, ok := s.albums[album.ID]; !ok {
		s.albums[album.ID] = model.NewAlbum(album)
		albumCreated = true
	}
	t, ok := s.tracks[track.ID]
	switch {
	case !ok:
		t = model.NewTrack(album.ID, track, isSkit)
		s.byAlbum[t.AlbumID] = append(s.byAlbum[t.AlbumID], t.ID)
	case isSkit != nil:
		t.IsSkitOrInterlude = *isSkit
	}
	s.tracks[t.ID] = t
	s.mu.Unlock()

	if albumCreated {
		metrics.RecordAlbumCreated()
	}
	return t, nil
}

// AlbumTracks implements TrackStore.AlbumTracks.
func (s *MemoryStore) AlbumTracks(ctx context.Context, albumID string) (model.Album, []model.TrackRating, error) {
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.albums[albumID]
	if !ok {
		observe(memoryDriver, "album_tracks", start, ErrNotFound)
		return model.Album{}, nil, ErrNotFound
	}
	tracks := s.albumTracksLocked(albumID)
	observe(memoryDriver, "album_tracks", start, nil)
	return a, tracks, nil
}

// RatedAlbums implements TrackStore.RatedAlbums.
func (s *MemoryStore) RatedAlbums(ctx context.Context) ([]model.AlbumTracks, error) {
	defer observe(memoryDriver, "rated_albums", time.Now(), nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.albums))
	for id := range s.albums {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]model.AlbumTracks, 0, len(ids))
	for _, id := range ids {
		tracks := s.albumTracksLocked(id)
		if !slices.ContainsFunc(tracks, func(t model.TrackRating) bool { return t.Rating != nil }) {
			continue
		}
		out = append(out, model.AlbumTracks{Album: s.albums[id], Tracks: tracks})
	}
	return out, nil
}

// albumTracksLocked assembles the tracks of an album ordered by track
// number, then id. Callers must hold s.mu.
func (s *MemoryStore) albumTracksLocked(albumID string) []model.TrackRating {
	ids := s.byAlbum[albumID]
	out := make([]model.TrackRating, 0, len(ids))
	for _, id := range ids {
		tr := model.TrackRating{Track: s.tracks[id]}
		if r, ok := s.ratings[id]; ok {
			r.Notes = cloneString(r.Notes)
			tr.Rating = &r
		}
		out = append(out, tr)
	}
	slices.SortFunc(out, compareTrackOrder)
	return out
}

// Count implements TrackStore.Count.
func (s *MemoryStore) Count(ctx context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{Albums: len(s.albums), Tracks: len(s.tracks), Ratings: len(s.ratings)}
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error { return nil }

func compareTrackOrder(a, b model.TrackRating) int {
	if c := cmp.Compare(a.Track.TrackNumber, b.Track.TrackNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.Track.ID, b.Track.ID)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func observe(driver, operation string, start time.Time, err error) {
	metrics.RecordStoreOperation(driver, operation, float64(time.Since(start).Microseconds())/1000, err)
}
