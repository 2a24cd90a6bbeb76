package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/tracklist/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete smoke test and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("smoke")
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting tracklist smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("albums", cfg.Albums),
		logger.Int("tracksPerAlbum", cfg.TracksPerAlbum),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	plan := generatePlan(ctx, cfg)

	if err := saveTracks(ctx, cfg, client, plan, stats); err != nil {
		return stats, fmt.Errorf("track classification failed: %w", err)
	}
	if err := submitRatings(ctx, cfg, client, plan, stats); err != nil {
		return stats, fmt.Errorf("rating submission failed: %w", err)
	}
	if err := toggleSkit(ctx, client, &plan, stats); err != nil {
		return stats, fmt.Errorf("skit toggle failed: %w", err)
	}
	if err := verifyAlbums(ctx, client, plan, stats); err != nil {
		return stats, fmt.Errorf("album verification failed: %w", err)
	}
	if err := verifyCollection(ctx, client, plan, stats); err != nil {
		return stats, fmt.Errorf("collection verification failed: %w", err)
	}

	if cfg.OutputFile != "" {
		if err := savePlan(cfg.OutputFile, plan); err != nil {
			log.Warn(ctx, "failed to save plan", logger.Error(err))
		} else {
			log.Info(ctx, "plan saved", logger.String("file", cfg.OutputFile))
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, stats, client.Requests())
	log.Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service answers and has started.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	var stats map[string]any
	if err := client.Get(ctx, "/stats", &stats); err != nil {
		return err
	}
	if started, _ := stats["started"].(bool); !started {
		return fmt.Errorf("service reports not started")
	}
	logger.Named("smoke").Info(ctx, "service is healthy", logger.Any("catalogEnabled", stats["catalogEnabled"]))
	return nil
}

// runPool feeds jobs to the given number of goroutines and returns the number of
// failed jobs. The first error is kept for reporting.
func runPool[T any](ctx context.Context, workers int, jobs []T, fn func(context.Context, T) error) (int64, error) {
	ch := make(chan T, workers*2)
	var (
		wg       sync.WaitGroup
		failed   atomic.Int64
		firstErr error
		once     sync.Once
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				if err := fn(ctx, job); err != nil {
					failed.Add(1)
					once.Do(func() { firstErr = err })
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case ch <- job:
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil && firstErr == nil {
		firstErr = err
	}
	return failed.Load(), firstErr
}

func saveTracks(ctx context.Context, cfg *Config, client *Client, plan Plan, stats *Stats) error {
	var jobs []classifyRequest
	for _, a := range plan.Albums {
		for _, t := range a.Tracks {
			skit := t.Skit
			jobs = append(jobs, classifyRequest{Album: a.Album, Track: t.Track, IsSkitOrInterlude: &skit})
		}
	}

	failed, err := runPool(ctx, cfg.Workers, jobs, func(ctx context.Context, req classifyRequest) error {
		return client.Post(ctx, "/tracks", req, nil)
	})
	stats.TracksSaved = int64(len(jobs)) - failed
	stats.Failed += failed
	if err != nil {
		return err
	}
	logger.Named("smoke").Info(ctx, "tracks saved", logger.String("count", humanize.Comma(stats.TracksSaved)))
	return nil
}

func submitRatings(ctx context.Context, cfg *Config, client *Client, plan Plan, stats *Stats) error {
	var jobs []RatingRequest
	for _, a := range plan.Albums {
		for _, t := range a.Tracks {
			if t.Rating != nil {
				jobs = append(jobs, *t.Rating)
			}
		}
	}

	failed, err := runPool(ctx, cfg.Workers, jobs, func(ctx context.Context, r RatingRequest) error {
		return client.Post(ctx, "/ratings", r, nil)
	})
	stats.RatingsSaved = int64(len(jobs)) - failed
	stats.Failed += failed
	if err != nil {
		return err
	}
	logger.Named("smoke").Info(ctx, "ratings saved", logger.String("count", humanize.Comma(stats.RatingsSaved)))
	return nil
}

// toggleSkit marks a rated track as a skit and checks that the album score
// moves to the value computed without it.
func toggleSkit(ctx context.Context, client *Client, plan *Plan, stats *Stats) error {
	for i := range plan.Albums {
		a := &plan.Albums[i]
		idx := a.toggleCandidate()
		if idx < 0 {
			continue
		}
		skit := true
		req := classifyRequest{Album: a.Album, Track: a.Tracks[idx].Track, IsSkitOrInterlude: &skit}
		if err := client.Post(ctx, "/tracks", req, nil); err != nil {
			return err
		}
		a.Tracks[idx].Skit = true
		stats.SkitToggled = true
		logger.Named("smoke").Info(ctx, "track marked as skit",
			logger.String("album", a.Album.Name),
			logger.Int("trackNumber", a.Tracks[idx].Track.TrackNumber))
		return nil
	}
	logger.Named("smoke").Warn(ctx, "no album has two rated tracks; skipping skit toggle")
	return nil
}

func verifyAlbums(ctx context.Context, client *Client, plan Plan, stats *Stats) error {
	for _, a := range plan.Albums {
		var got albumRating
		if err := client.Get(ctx, "/albums/rating?album_id="+url.QueryEscape(a.Album.ID), &got); err != nil {
			return err
		}
		if err := compareAlbum(a, got); err != nil {
			return err
		}
		stats.AlbumsVerified++
	}
	logger.Named("smoke").Info(ctx, "album ratings verified", logger.Int("albums", stats.AlbumsVerified))
	return nil
}

func verifyCollection(ctx context.Context, client *Client, plan Plan, stats *Stats) error {
	var got []ratedAlbum
	if err := client.Get(ctx, "/albums/rated?sort_by=rating&sort_order=desc", &got); err != nil {
		return err
	}
	if err := compareCollection(plan, got); err != nil {
		return err
	}
	stats.CollectionSize = len(got)
	logger.Named("smoke").Info(ctx, "collection verified", logger.Int("albums", len(got)))
	return nil
}

func savePlan(filename string, plan Plan) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats, requests int64) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(requests) / stats.Duration.Seconds()
	}
	logger.Named("smoke").Info(ctx, "final statistics",
		logger.String("tracksSaved", humanize.Comma(stats.TracksSaved)),
		logger.String("ratingsSaved", humanize.Comma(stats.RatingsSaved)),
		logger.String("failed", humanize.Comma(stats.Failed)),
		logger.Int("albumsVerified", stats.AlbumsVerified),
		logger.Int("collectionSize", stats.CollectionSize),
		logger.Bool("skitToggled", stats.SkitToggled),
		logger.String("requests", humanize.Comma(requests)),
		logger.String("requestsPerSecond", humanize.CommafWithDigits(perSecond, 1)),
		logger.String("startedAt", humanize.Time(stats.StartTime)),
		logger.Duration("duration", stats.Duration))
}
