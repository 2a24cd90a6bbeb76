package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/okian/tracklist/pkg/logger"
	"github.com/okian/tracklist/pkg/metrics"
)

// Spotify is a Catalog backed by the Spotify Web API.
type Spotify struct {
	client  *spotify.Client
	limit   int
	timeout time.Duration
	log     logger.Logger
}

var _ Catalog = (*Spotify)(nil)

// NewSpotify creates a catalog authenticated with the client-credentials
// flow. Tokens are fetched and refreshed lazily by the returned client.
func NewSpotify(ctx context.Context, clientID, clientSecret string, opts ...Option) *Spotify {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return NewSpotifyWithClient(spotify.New(cfg.Client(ctx)), opts...)
}

// NewSpotifyWithClient wraps an already configured API client.
func NewSpotifyWithClient(client *spotify.Client, opts ...Option) *Spotify {
	s := &Spotify{
		client:  client,
		limit:   DefaultSearchLimit,
		timeout: DefaultTimeout,
		log:     logger.Named("catalog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchAlbums implements Catalog.SearchAlbums. Tracks of every result are
// fetched concurrently; any failure fails the whole search.
func (s *Spotify) SearchAlbums(ctx context.Context, query string) (albums []Album, err error) {
	defer func(start time.Time) { observe("search", start, err) }(time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(s.limit))
	if err != nil {
		return nil, s.upstream(ctx, "search albums", err)
	}
	if res == nil || res.Albums == nil {
		return []Album{}, nil
	}

	albums = make([]Album, len(res.Albums.Albums))
	errs := make([]error, len(res.Albums.Albums))
	var wg sync.WaitGroup
	for i, sa := range res.Albums.Albums {
		albums[i] = fromSimpleAlbum(sa)
		wg.Add(1)
		go func(i int, id spotify.ID) {
			defer wg.Done()
			albums[i].Tracks, errs[i] = s.albumTracks(ctx, id)
		}(i, sa.ID)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, s.upstream(ctx, "album tracks", err)
	}
	return albums, nil
}

// Album implements Catalog.Album.
func (s *Spotify) Album(ctx context.Context, id string) (a Album, err error) {
	defer func(start time.Time) { observe("album", start, err) }(time.Now())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	full, err := s.client.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		if isNotFound(err) {
			return Album{}, fmt.Errorf("%w: %s", ErrAlbumNotFound, id)
		}
		return Album{}, s.upstream(ctx, "get album", err)
	}

	a = fromSimpleAlbum(full.SimpleAlbum)
	a.Genres = full.Genres
	page := &full.Tracks
	a.Tracks = fromSimpleTracks(page.Tracks)
	for page.Next != "" {
		if err := s.client.NextPage(ctx, page); err != nil {
			if errors.Is(err, spotify.ErrNoMorePages) {
				break
			}
			return Album{}, s.upstream(ctx, "album tracks", err)
		}
		a.Tracks = append(a.Tracks, fromSimpleTracks(page.Tracks)...)
	}
	return a, nil
}

// albumTracks fetches every track page of an album.
func (s *Spotify) albumTracks(ctx context.Context, id spotify.ID) ([]Track, error) {
	page, err := s.client.GetAlbumTracks(ctx, id, spotify.Limit(maxSearchLimit))
	if err != nil {
		return nil, fmt.Errorf("album %s: %w", id, err)
	}
	tracks := fromSimpleTracks(page.Tracks)
	for page.Next != "" {
		if err := s.client.NextPage(ctx, page); err != nil {
			if errors.Is(err, spotify.ErrNoMorePages) {
				break
			}
			return nil, fmt.Errorf("album %s: %w", id, err)
		}
		tracks = append(tracks, fromSimpleTracks(page.Tracks)...)
	}
	return tracks, nil
}

func (s *Spotify) upstream(ctx context.Context, op string, err error) error {
	s.log.Warn(ctx, "catalog request failed", logger.String("operation", op), logger.Error(err))
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

func isNotFound(err error) bool {
	var se spotify.Error
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func fromSimpleAlbum(sa spotify.SimpleAlbum) Album {
	a := Album{
		ID:          string(sa.ID),
		Name:        sa.Name,
		ReleaseDate: sa.ReleaseDate,
		Artists:     make([]string, 0, len(sa.Artists)),
		ImageURLs:   make([]string, 0, len(sa.Images)),
		Tracks:      []Track{},
	}
	for _, ar := range sa.Artists {
		a.Artists = append(a.Artists, ar.Name)
	}
	for _, img := range sa.Images {
		if img.URL != "" {
			a.ImageURLs = append(a.ImageURLs, img.URL)
		}
	}
	return a
}

func fromSimpleTracks(in []spotify.SimpleTrack) []Track {
	out := make([]Track, 0, len(in))
	for _, t := range in {
		out = append(out, Track{
			ID:          string(t.ID),
			Name:        t.Name,
			TrackNumber: int(t.TrackNumber),
			DurationMs:  int(t.Duration),
		})
	}
	return out
}

func observe(op string, start time.Time, err error) {
	metrics.RecordCatalogRequest(op, float64(time.Since(start).Microseconds())/1000, err)
}
