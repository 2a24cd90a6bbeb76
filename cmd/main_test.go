package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/tracklist/internal/config"
	"github.com/okian/tracklist/pkg/logger"
	"github.com/okian/tracklist/pkg/metrics"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a configuration from the environment", t, func() {
		t.Setenv("TRACKLIST_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		t.Setenv("TRACKLIST_STORE_DRIVER", config.DriverMemory)
		t.Setenv("TRACKLIST_ADDR", ":0")
		t.Setenv("TRACKLIST_COLLATION_LANGUAGE", "de")

		ctx := context.Background()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)

		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, svc))
		defer srv.Close()

		convey.Convey("Then an album can be classified, rated and listed", func() {
			album := `{"id":"alb1","name":"Illmatic","artists":["Nas"],"release_date":"1994-04-19"}`
			for _, tr := range []string{
				`{"id":"t1","name":"The Genesis","track_number":1}`,
				`{"id":"t2","name":"N.Y. State of Mind","track_number":2}`,
				`{"id":"t3","name":"Life's a Bitch","track_number":3}`,
			} {
				skit := "false"
				if strings.Contains(tr, `"t1"`) {
					skit = "true"
				}
				resp := post(t, srv.URL+"/tracks", `{"album":`+album+`,"track":`+tr+`,"is_skit_or_interlude":`+skit+`}`)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}

			resp := post(t, srv.URL+"/ratings", `{"track_id":"t2","beat":15,"lyrics":15,"flow":15,"content":15,"replay_value":15}`)
			resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			var report map[string]any
			convey.So(getJSON(t, srv.URL+"/albums/rating?album_id=alb1", &report), convey.ShouldEqual, http.StatusOK)
			convey.So(report["album_rating"], convey.ShouldEqual, 7.5)
			convey.So(report["summary"], convey.ShouldEqual, "1 of 2 tracks rated")

			var rated []map[string]any
			convey.So(getJSON(t, srv.URL+"/albums/rated?decade=1990", &rated), convey.ShouldEqual, http.StatusOK)
			convey.So(rated, convey.ShouldHaveLength, 1)
			convey.So(rated[0]["name"], convey.ShouldEqual, "Illmatic")

			var stats map[string]any
			convey.So(getJSON(t, srv.URL+"/stats", &stats), convey.ShouldEqual, http.StatusOK)
			convey.So(stats["ratings"], convey.ShouldEqual, float64(1))
			convey.So(stats["collation"], convey.ShouldEqual, "de")
		})

		convey.Convey("Then search reports the missing catalog credentials", func() {
			resp, err := http.Get(srv.URL + "/search?query=nas")
			convey.So(err, convey.ShouldBeNil)
			resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusServiceUnavailable)
		})

		convey.Convey("Then the landing page and API docs are served", func() {
			for _, path := range []string{"/openapi.yaml", "/api-docs", "/"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("TRACKLIST_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		t.Setenv("TRACKLIST_STORE_DRIVER", "postgres")

		convey.Convey("Then configuration loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("Then the system updater returns when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a system metrics update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then a service metrics update works before start", func() {
			cfg := config.New()
			cfg.StoreDriver = config.DriverMemory
			svc := newService(cfg, logger.Get())
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a metrics manager accepts a custom registry", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
			convey.So(manager, convey.ShouldNotBeNil)
		})
	})
}
