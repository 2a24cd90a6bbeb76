// Package catalog looks up albums and tracklists in the third-party music
// catalog.
package catalog

import (
	"context"

	"github.com/okian/tracklist/internal/domain/model"
)

// Catalog searches albums and fetches their tracklists.
type Catalog interface {
	// SearchAlbums returns albums matching query, each with its tracks.
	SearchAlbums(ctx context.Context, query string) ([]Album, error)
	// Album returns one album with its tracks.
	Album(ctx context.Context, id string) (Album, error)
}

// Album is a catalog album. Missing fields are left empty.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	ImageURLs   []string `json:"images"`
	Genres      []string `json:"genres"`
	Tracks      []Track  `json:"tracks"`
}

// Track is a catalog track.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TrackNumber int    `json:"track_number"`
	DurationMs  int    `json:"duration_ms"`
}

// Snapshot returns the album metadata stored on first track save. Only the
// first genre is kept.
func (a Album) Snapshot() model.AlbumSnapshot {
	s := model.AlbumSnapshot{
		ID:          a.ID,
		Name:        a.Name,
		Artists:     a.Artists,
		ReleaseDate: a.ReleaseDate,
		ImageURLs:   a.ImageURLs,
	}
	if len(a.Genres) > 0 {
		s.Genre = a.Genres[0]
	}
	return s
}

// Snapshot returns the track metadata stored on first save.
func (t Track) Snapshot() model.TrackSnapshot {
	return model.TrackSnapshot{
		ID:          t.ID,
		Name:        t.Name,
		TrackNumber: t.TrackNumber,
		DurationMs:  t.DurationMs,
	}
}

// Disabled is a Catalog used when no credentials are configured.
type Disabled struct{}

// SearchAlbums implements Catalog.SearchAlbums.
func (Disabled) SearchAlbums(context.Context, string) ([]Album, error) {
	return nil, ErrCatalogDisabled
}

// Album implements Catalog.Album.
func (Disabled) Album(context.Context, string) (Album, error) {
	return Album{}, ErrCatalogDisabled
}
