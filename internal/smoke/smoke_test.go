package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/tracklist/internal/adapters/http/api"
	service "github.com/okian/tracklist/internal/app"
	"github.com/okian/tracklist/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithStoreDriver(service.DriverMemory, ""))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:        baseURL,
		Albums:         6,
		TracksPerAlbum: 5,
		Workers:        4,
		Timeout:        5 * time.Second,
		Seed:           7,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := startServer(t)
		cfg := testConfig(srv.URL)
		cfg.OutputFile = filepath.Join(t.TempDir(), "out", "plan.json")

		Convey("A smoke run passes and writes the plan", func() {
			stats, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(stats.TracksSaved, ShouldEqual, int64(30))
			So(stats.Failed, ShouldEqual, int64(0))
			So(stats.AlbumsVerified, ShouldEqual, 6)
			So(stats.CollectionSize, ShouldEqual, 6)

			data, err := os.ReadFile(cfg.OutputFile)
			So(err, ShouldBeNil)
			var plan Plan
			So(json.Unmarshal(data, &plan), ShouldBeNil)
			So(plan.Albums, ShouldHaveLength, 6)
			So(plan.Seed, ShouldEqual, uint64(7))
		})

		Convey("An invalid config is rejected before any request", func() {
			cfg.Workers = 0
			_, err := Run(context.Background(), cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given no service", t, func() {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Timeout = 200 * time.Millisecond

		Convey("The health check fails", func() {
			_, err := Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGeneratePlan(t *testing.T) {
	Convey("Given a generated plan", t, func() {
		plan := generatePlan(context.Background(), testConfig("http://x"))

		Convey("Every album has a rated non-skit track", func() {
			for _, a := range plan.Albums {
				So(a.Tracks, ShouldHaveLength, 5)
				So(a.expected().Rated(), ShouldBeTrue)
			}
		})

		Convey("Even albums open with a rated skit", func() {
			So(plan.Albums[0].Tracks[0].Skit, ShouldBeTrue)
			So(plan.Albums[0].Tracks[0].Rating, ShouldNotBeNil)
			So(plan.Albums[1].Tracks[0].Skit, ShouldBeFalse)
		})

		Convey("The same seed yields the same ratings", func() {
			again := generatePlan(context.Background(), testConfig("http://x"))
			for i := range plan.Albums {
				So(again.Albums[i].Album.ReleaseDate, ShouldEqual, plan.Albums[i].Album.ReleaseDate)
				So(again.Albums[i].Tracks[1].Rating.Beat, ShouldEqual, plan.Albums[i].Tracks[1].Rating.Beat)
			}
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given a planned album", t, func() {
		a := PlannedAlbum{
			Album: CatalogAlbum{ID: "a", Name: "A"},
			Tracks: []PlannedTrack{
				{Track: CatalogTrack{ID: "t1", TrackNumber: 1}, Skit: true, Rating: &RatingRequest{TrackID: "t1", Beat: 20}},
				{Track: CatalogTrack{ID: "t2", TrackNumber: 2}, Rating: &RatingRequest{TrackID: "t2", Beat: 15, Lyrics: 15, Flow: 15, Content: 15, ReplayValue: 15}},
				{Track: CatalogTrack{ID: "t3", TrackNumber: 3}},
			},
		}
		rating := 7.5

		Convey("A matching response passes", func() {
			So(compareAlbum(a, albumRating{AlbumRating: &rating, RatedTracks: 1, TotalTracks: 2}), ShouldBeNil)
		})

		Convey("A wrong rating is a mismatch", func() {
			off := 7.4
			err := compareAlbum(a, albumRating{AlbumRating: &off, RatedTracks: 1, TotalTracks: 2})
			So(errors.Is(err, ErrMismatch), ShouldBeTrue)
		})

		Convey("A missing rating is a mismatch", func() {
			err := compareAlbum(a, albumRating{RatedTracks: 1, TotalTracks: 2})
			So(errors.Is(err, ErrMismatch), ShouldBeTrue)
		})

		Convey("The toggle candidate needs two rated tracks", func() {
			So(a.toggleCandidate(), ShouldEqual, -1)
			a.Tracks[2].Rating = &RatingRequest{TrackID: "t3"}
			So(a.toggleCandidate(), ShouldEqual, 2)
		})

		Convey("An unsorted collection is a mismatch", func() {
			plan := Plan{Albums: []PlannedAlbum{a}}
			err := compareCollection(plan, []ratedAlbum{{ID: "x", Rating: 1}, {ID: "a", Rating: 7.5}})
			So(errors.Is(err, ErrMismatch), ShouldBeTrue)
			So(compareCollection(plan, []ratedAlbum{{ID: "a", Rating: 7.5}}), ShouldBeNil)
			So(errors.Is(compareCollection(plan, nil), ErrMismatch), ShouldBeTrue)
		})
	})
}

func TestNewCommand(t *testing.T) {
	Convey("Given the smoke command", t, func() {
		cmd := NewCommand()

		Convey("It exposes the run flags", func() {
			for _, name := range []string{"url", "albums", "tracks", "workers", "timeout", "seed", "output", "verbose"} {
				So(cmd.Flags().Lookup(name), ShouldNotBeNil)
			}
		})

		Convey("It runs against a live service", func() {
			srv := startServer(t)
			cmd.SetArgs([]string{"--url", srv.URL, "--albums", "3", "--tracks", "4", "--workers", "2", "--seed", "1"})
			So(cmd.ExecuteContext(context.Background()), ShouldBeNil)
		})
	})
}
