package catalog_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/okian/tracklist/internal/adapters/catalog"
	"github.com/okian/tracklist/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

const searchBody = `{
  "albums": {
    "href": "", "limit": 10, "offset": 0, "total": 2, "next": "",
    "items": [
      {
        "id": "alb1",
        "name": "Madvillainy",
        "album_type": "album",
        "release_date": "2004-03-23",
        "release_date_precision": "day",
        "artists": [{"id": "a1", "name": "Madlib"}, {"id": "a2", "name": "MF DOOM"}],
        "images": [{"url": "https://img/big", "height": 640, "width": 640}, {"url": "https://img/small", "height": 64, "width": 64}]
      },
      {
        "id": "alb2",
        "name": "Bare",
        "album_type": "album"
      }
    ]
  }
}`

const tracksBody = `{
  "href": "", "limit": 50, "offset": 0, "total": 2, "next": "",
  "items": [
    {"id": "t1", "name": "The Illest Villains", "track_number": 1, "duration_ms": 114000},
    {"id": "t2", "name": "Accordion", "track_number": 2, "duration_ms": 119000}
  ]
}`

const albumBody = `{
  "id": "alb1",
  "name": "Madvillainy",
  "album_type": "album",
  "release_date": "2004",
  "artists": [{"id": "a1", "name": "Madlib"}],
  "genres": ["hip hop", "underground"],
  "tracks": {
    "href": "", "limit": 50, "offset": 0, "total": 1, "next": "",
    "items": [{"id": "t1", "name": "The Illest Villains", "track_number": 1, "duration_ms": 114000}]
  }
}`

func newCatalog(handler http.HandlerFunc) (*catalog.Spotify, func()) {
	srv := httptest.NewServer(handler)
	client := spotify.New(srv.Client(), spotify.WithBaseURL(srv.URL+"/"))
	return catalog.NewSpotifyWithClient(client, catalog.WithSearchLimit(5)), srv.Close
}

func TestSpotify_SearchAlbums(t *testing.T) {
	Convey("Given a catalog server with two albums", t, func() {
		var searchQuery, searchType, searchLimit string
		c, done := newCatalog(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/search":
				searchQuery = r.URL.Query().Get("q")
				searchType = r.URL.Query().Get("type")
				searchLimit = r.URL.Query().Get("limit")
				_, _ = w.Write([]byte(searchBody))
			case "/albums/alb1/tracks":
				_, _ = w.Write([]byte(tracksBody))
			case "/albums/alb2/tracks":
				_, _ = w.Write([]byte(`{"items": []}`))
			default:
				http.NotFound(w, r)
			}
		})
		defer done()

		Convey("When searching", func() {
			albums, err := c.SearchAlbums(context.Background(), "madvillain")

			Convey("Then albums are mapped with their tracks", func() {
				So(err, ShouldBeNil)
				So(searchQuery, ShouldEqual, "madvillain")
				So(searchType, ShouldEqual, "album")
				So(searchLimit, ShouldEqual, "5")
				So(albums, ShouldHaveLength, 2)

				first := albums[0]
				So(first.ID, ShouldEqual, "alb1")
				So(first.Artists, ShouldResemble, []string{"Madlib", "MF DOOM"})
				So(first.ImageURLs, ShouldResemble, []string{"https://img/big", "https://img/small"})
				So(first.Tracks, ShouldHaveLength, 2)
				So(first.Tracks[1], ShouldResemble, catalog.Track{ID: "t2", Name: "Accordion", TrackNumber: 2, DurationMs: 119000})

				snap := first.Snapshot()
				So(snap.Artists, ShouldResemble, []string{"Madlib", "MF DOOM"})
				So(snap.ReleaseDate, ShouldEqual, "2004-03-23")
			})

			Convey("Then missing fields map to empty values", func() {
				bare := albums[1]
				So(bare.Artists, ShouldBeEmpty)
				So(bare.ImageURLs, ShouldBeEmpty)
				So(bare.ReleaseDate, ShouldEqual, "")
				So(bare.Tracks, ShouldBeEmpty)
			})
		})

		Convey("When the query is blank", func() {
			_, err := c.SearchAlbums(context.Background(), "  ")
			So(errors.Is(err, catalog.ErrEmptyQuery), ShouldBeTrue)
		})
	})

	Convey("Given a failing catalog server", t, func() {
		c, done := newCatalog(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"status": 500, "message": "boom"}}`))
		})
		defer done()

		Convey("When searching", func() {
			_, err := c.SearchAlbums(context.Background(), "anything")

			Convey("Then the error is an upstream failure", func() {
				So(errors.Is(err, catalog.ErrUpstream), ShouldBeTrue)
			})
		})
	})
}

func TestSpotify_Album(t *testing.T) {
	Convey("Given a catalog server with one album", t, func() {
		c, done := newCatalog(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/albums/alb1" {
				_, _ = w.Write([]byte(albumBody))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"status": 404, "message": "non existing id"}}`))
		})
		defer done()

		Convey("When fetching it", func() {
			a, err := c.Album(context.Background(), "alb1")

			So(err, ShouldBeNil)
			So(a.Genres, ShouldResemble, []string{"hip hop", "underground"})
			So(a.Snapshot().Genre, ShouldEqual, "hip hop")
			So(a.Tracks, ShouldHaveLength, 1)
			So(a.Tracks[0].Snapshot().DurationMs, ShouldEqual, 114000)
		})

		Convey("When fetching an unknown album", func() {
			_, err := c.Album(context.Background(), "nope")
			So(errors.Is(err, catalog.ErrAlbumNotFound), ShouldBeTrue)
		})
	})
}

func TestDisabled(t *testing.T) {
	Convey("Given a disabled catalog", t, func() {
		var c catalog.Catalog = catalog.Disabled{}

		_, err := c.SearchAlbums(context.Background(), "x")
		So(errors.Is(err, catalog.ErrCatalogDisabled), ShouldBeTrue)

		_, err = c.Album(context.Background(), "x")
		So(errors.Is(err, catalog.ErrCatalogDisabled), ShouldBeTrue)
	})
}
