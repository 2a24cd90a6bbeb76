// Package repository persists tracks, albums and their ratings.
package repository

import (
	"context"

	"github.com/okian/tracklist/internal/domain/model"
)

// Counts reports how many entities a store holds.
type Counts struct {
	Albums  int
	Tracks  int
	Ratings int
}

// RatingStore holds at most one rating per track.
type RatingStore interface {
	// GetRating returns the rating of a track, or nil when it has none.
	GetRating(ctx context.Context, trackID string) (*model.Rating, error)
	// UpsertRating creates or fully replaces the rating of a track.
	// The whole record is swapped in one step; concurrent writers never
	// produce a mix of two submissions.
	UpsertRating(ctx context.Context, trackID string, dims model.Dimensions, notes *string) (model.Rating, error)
}

// TrackStore holds tracks, their skit classification and their albums.
type TrackStore interface {
	// GetTrack returns a track, or nil when it is unknown.
	GetTrack(ctx context.Context, trackID string) (*model.Track, error)
	// UpsertTrackClassification creates the track (and its album when
	// absent) from the snapshots, or updates only the skit flag of an
	// existing track. A nil isSkit leaves an existing track untouched.
	UpsertTrackClassification(ctx context.Context, album model.AlbumSnapshot, track model.TrackSnapshot, isSkit *bool) (model.Track, error)
	// AlbumTracks returns an album and all its known tracks ordered by
	// track number. Returns ErrNotFound if the album is unknown.
	AlbumTracks(ctx context.Context, albumID string) (model.Album, []model.TrackRating, error)
	// RatedAlbums returns every album having at least one rated track,
	// ordered by album id.
	RatedAlbums(ctx context.Context) ([]model.AlbumTracks, error)
	// Count returns the number of stored entities.
	Count(ctx context.Context) Counts
}

// Store is the full persistence boundary used by the service.
type Store interface {
	RatingStore
	TrackStore
	// Close releases resources held by the store.
	Close() error
}
