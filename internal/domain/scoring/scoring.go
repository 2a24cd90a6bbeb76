// Package scoring turns rating records into the scalar scores shown to users.
//
// All functions here are pure and never round; rounding to one decimal is a
// presentation concern (see Round1).
package scoring

import (
	"math"

	"github.com/okian/tracklist/internal/domain/model"
)

// Scale constants.
const (
	// MaxTrackScore is the top of the per-track scale.
	MaxTrackScore = model.MaxDimension
	// MaxAlbumScore is the top of the per-album scale.
	MaxAlbumScore = 10
	// pointsPerTrack is the maximum dimension total of one rating.
	pointsPerTrack = model.MaxDimension * model.DimensionCount
)

// Aggregate is the album-level result of AlbumScore.
type Aggregate struct {
	// Score is nil when no track is both ratable and rated.
	Score *float64
	// RatedTracks counts non-skit tracks that carry a rating.
	RatedTracks int
	// RatableTracks counts non-skit tracks regardless of rating.
	RatableTracks int
}

// Rated reports whether the album has a score.
func (a Aggregate) Rated() bool { return a.Score != nil }

// ScoreOrZero returns the score, treating "not yet rated" as 0.
// Sorting uses this so unrated entries rank lowest.
func (a Aggregate) ScoreOrZero() float64 {
	if a.Score == nil {
		return 0
	}
	return *a.Score
}

// TrackScore returns the mean of the five dimensions on the 0-20 scale.
func TrackScore(r model.Rating) float64 {
	return float64(r.Sum()) / model.DimensionCount
}

// Eligible reports whether a track takes part in album aggregation:
// it must not be a skit/interlude and must have a rating.
func Eligible(t model.TrackRating) bool {
	return !t.Track.IsSkitOrInterlude && t.Rating != nil
}

// AlbumScore computes the 0-10 album score over the rated-ratable tracks.
//
// The score is total points / (n * 100) * 10, which equals the mean
// TrackScore of those tracks halved. Ratings left on tracks later marked as
// skits are ignored, not removed.
func AlbumScore(tracks []model.TrackRating) Aggregate {
	var agg Aggregate
	total := 0
	for _, t := range tracks {
		if t.Track.IsSkitOrInterlude {
			continue
		}
		agg.RatableTracks++
		if t.Rating == nil {
			continue
		}
		agg.RatedTracks++
		total += t.Rating.Sum()
	}
	if agg.RatedTracks == 0 {
		return agg
	}
	score := float64(total) / float64(agg.RatedTracks*pointsPerTrack) * MaxAlbumScore
	agg.Score = &score
	return agg
}

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
