package smoke

import (
	"errors"
	"fmt"

	"github.com/okian/tracklist/internal/domain/scoring"
)

// ErrMismatch reports a difference between the service and the plan.
var ErrMismatch = errors.New("verification mismatch")

// compareAlbum checks one album rating response against the plan.
func compareAlbum(a PlannedAlbum, got albumRating) error {
	want := a.expected()
	if got.RatedTracks != want.RatedTracks || got.TotalTracks != want.RatableTracks {
		return fmt.Errorf("%w: album %s: got %d of %d rated tracks, want %d of %d",
			ErrMismatch, a.Album.Name, got.RatedTracks, got.TotalTracks, want.RatedTracks, want.RatableTracks)
	}
	switch {
	case want.Score == nil && got.AlbumRating == nil:
		return nil
	case want.Score == nil || got.AlbumRating == nil:
		return fmt.Errorf("%w: album %s: rated state differs", ErrMismatch, a.Album.Name)
	}
	if w := scoring.Round1(*want.Score); *got.AlbumRating != w {
		return fmt.Errorf("%w: album %s: rating %.1f, want %.1f", ErrMismatch, a.Album.Name, *got.AlbumRating, w)
	}
	return nil
}

// compareCollection checks that every planned album is listed and that the
// list is ordered by rating, highest first.
func compareCollection(plan Plan, got []ratedAlbum) error {
	listed := make(map[string]float64, len(got))
	for i, a := range got {
		listed[a.ID] = a.Rating
		if i > 0 && a.Rating > got[i-1].Rating {
			return fmt.Errorf("%w: collection not sorted: %s (%.1f) after %s (%.1f)",
				ErrMismatch, a.Name, a.Rating, got[i-1].Name, got[i-1].Rating)
		}
	}
	for _, a := range plan.Albums {
		rating, ok := listed[a.Album.ID]
		if !ok {
			return fmt.Errorf("%w: album %s missing from collection", ErrMismatch, a.Album.Name)
		}
		if want := scoring.Round1(a.expected().ScoreOrZero()); rating != want {
			return fmt.Errorf("%w: album %s listed at %.1f, want %.1f", ErrMismatch, a.Album.Name, rating, want)
		}
	}
	return nil
}
