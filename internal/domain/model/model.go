// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"time"
)

// Album is a catalog album as first seen by the collection. It is created
// lazily on the first track save and never updated afterwards.
type Album struct {
	ID          string
	Name        string
	Artist      string  // contributing artists joined with ", "
	ReleaseDate *string // free-form: "1994", "1994-04", "1994-04-19"
	ImageURL    *string
	Genre       *string
}

// Year returns the calendar year of the release date.
func (a Album) Year() (int, bool) {
	if a.ReleaseDate == nil || len(*a.ReleaseDate) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi((*a.ReleaseDate)[:4])
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// Decade returns the release year floored to the nearest ten.
func (a Album) Decade() (int, bool) {
	y, ok := a.Year()
	if !ok {
		return 0, false
	}
	return DecadeOf(y), true
}

// DecadeOf floors a year to its decade: 1994 -> 1990.
func DecadeOf(year int) int {
	return year / 10 * 10
}

// Track is a single song of an album.
type Track struct {
	ID                string
	AlbumID           string
	Name              string
	TrackNumber       int
	DurationMs        int
	IsSkitOrInterlude bool
}

// Rating is the five-dimension score record of one track, keyed by TrackID.
type Rating struct {
	TrackID string
	Dimensions
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackRating pairs a track with its rating, if any.
type TrackRating struct {
	Track  Track
	Rating *Rating
}

// AlbumTracks is an album together with every track the store knows for it.
type AlbumTracks struct {
	Album  Album
	Tracks []TrackRating
}

// AlbumSnapshot is the catalog metadata used to create an album on first save.
type AlbumSnapshot struct {
	ID          string
	Name        string
	Artists     []string
	ReleaseDate string
	ImageURLs   []string
	Genre       string
}

// TrackSnapshot is the catalog metadata used to create a track on first save.
type TrackSnapshot struct {
	ID          string
	Name        string
	TrackNumber int
	DurationMs  int
}

// ClassifyRequest asks for a track to be created or its skit flag updated.
// A nil IsSkitOrInterlude leaves an existing track untouched.
type ClassifyRequest struct {
	Album             AlbumSnapshot
	Track             TrackSnapshot
	IsSkitOrInterlude *bool
}
