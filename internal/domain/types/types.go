// Package types contains read shapes shared by the service and the API.
package types

import (
	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/internal/domain/scoring"
)

// TrackScore is the score of one ratable, rated track on the 0-20 scale.
type TrackScore struct {
	Track model.Track
	Score float64
}

// AlbumReport is the detail view of an album's rating.
type AlbumReport struct {
	AlbumID string
	// Album is nil when the album has never been saved.
	Album     *model.Album
	Aggregate scoring.Aggregate
	// Tracks lists the scored tracks ordered by track number.
	Tracks []TrackScore
}

// Summary returns "N of M tracks rated".
func (r AlbumReport) Summary() string {
	return summary(r.Aggregate.RatedTracks, r.Aggregate.RatableTracks)
}
