package smoke

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/internal/domain/scoring"
	"github.com/okian/tracklist/pkg/logger"
)

// Generation constants.
const (
	minTracksPerAlbum = 3
	firstReleaseYear  = 1970
	releaseYearSpan   = 55
	minDurationMs     = 60_000
	durationSpanMs    = 240_000
	// ratePercent is the chance a non-skit track gets rated.
	ratePercent = 70
)

var genres = []string{"hip hop", "jazz rap", "boom bap", "soul", "trap"}

// PlannedTrack is one track of the plan with its intended classification
// and rating.
type PlannedTrack struct {
	Track  CatalogTrack   `json:"track"`
	Skit   bool           `json:"skit"`
	Rating *RatingRequest `json:"rating,omitempty"`
}

// PlannedAlbum is one album of the plan.
type PlannedAlbum struct {
	Album  CatalogAlbum   `json:"album"`
	Tracks []PlannedTrack `json:"tracks"`
}

// Plan is the full set of writes a run performs.
type Plan struct {
	Seed   uint64         `json:"seed"`
	Albums []PlannedAlbum `json:"albums"`
}

// generatePlan builds albums whose first track is a skit on every other
// album. Each album gets at least one rated non-skit track so it shows up
// in the rated collection.
func generatePlan(ctx context.Context, cfg *Config) Plan {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	plan := Plan{Seed: cfg.Seed, Albums: make([]PlannedAlbum, cfg.Albums)}

	for i := range plan.Albums {
		year := firstReleaseYear + rng.IntN(releaseYearSpan)
		album := PlannedAlbum{
			Album: CatalogAlbum{
				ID:          uuid.NewString(),
				Name:        fmt.Sprintf("Smoke Album %03d", i+1),
				Artists:     []string{fmt.Sprintf("Artist %02d", rng.IntN(cfg.Albums)+1)},
				ReleaseDate: fmt.Sprintf("%d-%02d-%02d", year, rng.IntN(12)+1, rng.IntN(28)+1),
				Genres:      []string{genres[rng.IntN(len(genres))]},
			},
			Tracks: make([]PlannedTrack, cfg.TracksPerAlbum),
		}
		for n := range album.Tracks {
			t := PlannedTrack{
				Track: CatalogTrack{
					ID:          uuid.NewString(),
					Name:        fmt.Sprintf("Track %d", n+1),
					TrackNumber: n + 1,
					DurationMs:  minDurationMs + rng.IntN(durationSpanMs),
				},
				Skit: n == 0 && i%2 == 0,
			}
			// The skit intro is rated too; it must not count.
			if t.Skit || n == 1 || rng.IntN(100) < ratePercent {
				t.Rating = randomRating(rng, t.Track.ID)
			}
			album.Tracks[n] = t
		}
		plan.Albums[i] = album
	}

	logger.Get().Info(ctx, "generated plan",
		logger.Int("albums", len(plan.Albums)),
		logger.Int("tracks", plan.trackCount()),
		logger.Int("ratings", plan.ratingCount()))
	return plan
}

func randomRating(rng *rand.Rand, trackID string) *RatingRequest {
	dim := func() int { return rng.IntN(model.MaxDimension + 1) }
	return &RatingRequest{
		TrackID:     trackID,
		Beat:        dim(),
		Lyrics:      dim(),
		Flow:        dim(),
		Content:     dim(),
		ReplayValue: dim(),
	}
}

func (p Plan) trackCount() int {
	n := 0
	for _, a := range p.Albums {
		n += len(a.Tracks)
	}
	return n
}

func (p Plan) ratingCount() int {
	n := 0
	for _, a := range p.Albums {
		for _, t := range a.Tracks {
			if t.Rating != nil {
				n++
			}
		}
	}
	return n
}

// expected returns the aggregate the service should report for the album.
func (a PlannedAlbum) expected() scoring.Aggregate {
	tracks := make([]model.TrackRating, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		tr := model.TrackRating{Track: model.Track{
			ID:                t.Track.ID,
			AlbumID:           a.Album.ID,
			TrackNumber:       t.Track.TrackNumber,
			IsSkitOrInterlude: t.Skit,
		}}
		if r := t.Rating; r != nil {
			tr.Rating = &model.Rating{TrackID: r.TrackID, Dimensions: model.Dimensions{
				Beat:        r.Beat,
				Lyrics:      r.Lyrics,
				Flow:        r.Flow,
				Content:     r.Content,
				ReplayValue: r.ReplayValue,
			}}
		}
		tracks = append(tracks, tr)
	}
	return scoring.AlbumScore(tracks)
}

// toggleCandidate returns the index of the last rated non-skit track of an
// album that still keeps another rated non-skit track, or -1.
func (a PlannedAlbum) toggleCandidate() int {
	rated := 0
	last := -1
	for i, t := range a.Tracks {
		if !t.Skit && t.Rating != nil {
			rated++
			last = i
		}
	}
	if rated < 2 {
		return -1
	}
	return last
}
