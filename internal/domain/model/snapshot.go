package model

import "strings"

// ArtistSeparator joins the names of contributing artists.
const ArtistSeparator = ", "

// Validate checks that both the album and the track carry an id.
func (r ClassifyRequest) Validate() error {
	if strings.TrimSpace(r.Track.ID) == "" {
		return ErrMissingTrackID
	}
	if strings.TrimSpace(r.Album.ID) == "" {
		return ErrMissingAlbumID
	}
	return nil
}

// NewAlbum builds the stored album from catalog metadata. Empty optional
// fields become nil and only the first image is kept.
func NewAlbum(s AlbumSnapshot) Album {
	a := Album{
		ID:     s.ID,
		Name:   s.Name,
		Artist: strings.Join(s.Artists, ArtistSeparator),
	}
	if s.ReleaseDate != "" {
		a.ReleaseDate = stringPtr(s.ReleaseDate)
	}
	if len(s.ImageURLs) > 0 && s.ImageURLs[0] != "" {
		a.ImageURL = stringPtr(s.ImageURLs[0])
	}
	if s.Genre != "" {
		a.Genre = stringPtr(s.Genre)
	}
	return a
}

// NewTrack builds the stored track from catalog metadata. A nil isSkit
// creates a regular track.
func NewTrack(albumID string, s TrackSnapshot, isSkit *bool) Track {
	return Track{
		ID:                s.ID,
		AlbumID:           albumID,
		Name:              s.Name,
		TrackNumber:       s.TrackNumber,
		DurationMs:        s.DurationMs,
		IsSkitOrInterlude: isSkit != nil && *isSkit,
	}
}

func stringPtr(s string) *string { return &s }
