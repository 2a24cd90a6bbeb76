package model

import (
	"fmt"
	"strings"
)

// Rating dimension bounds, inclusive.
const (
	MinDimension = 0
	MaxDimension = 20
	// DimensionCount is the number of scored dimensions per rating.
	DimensionCount = 5
)

// Dimensions holds the five scored aspects of a track.
type Dimensions struct {
	Beat        int
	Lyrics      int
	Flow        int
	Content     int
	ReplayValue int
}

// Sum returns the total of all five dimensions.
func (d Dimensions) Sum() int {
	return d.Beat + d.Lyrics + d.Flow + d.Content + d.ReplayValue
}

// RatingSubmission is a rating write request. Dimensions are pointers so a
// missing value can be told apart from zero.
type RatingSubmission struct {
	TrackID     string
	Beat        *int
	Lyrics      *int
	Flow        *int
	Content     *int
	ReplayValue *int
	Notes       *string
}

// Validate checks the track id first, then each dimension in order, and
// returns the dimensions on success.
func (s RatingSubmission) Validate() (Dimensions, error) {
	if strings.TrimSpace(s.TrackID) == "" {
		return Dimensions{}, ErrMissingTrackID
	}
	fields := []struct {
		name string
		val  *int
	}{
		{"beat", s.Beat},
		{"lyrics", s.Lyrics},
		{"flow", s.Flow},
		{"content", s.Content},
		{"replay_value", s.ReplayValue},
	}
	for _, f := range fields {
		if f.val == nil {
			return Dimensions{}, fmt.Errorf("%w: %s", ErrMissingDimension, f.name)
		}
		if *f.val < MinDimension || *f.val > MaxDimension {
			return Dimensions{}, fmt.Errorf("%w: %s must be between %d and %d, got %d",
				ErrDimensionOutOfRange, f.name, MinDimension, MaxDimension, *f.val)
		}
	}
	return Dimensions{
		Beat:        *s.Beat,
		Lyrics:      *s.Lyrics,
		Flow:        *s.Flow,
		Content:     *s.Content,
		ReplayValue: *s.ReplayValue,
	}, nil
}
