package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/tracklist/internal/domain/model"
)

func boolp(b bool) *bool    { return &b }
func strp(s string) *string { return &s }

func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// eachStore runs fn against every Store implementation.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore(WithClock(fixedClock()))
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLStore(filepath.Join(t.TempDir(), "tracklist.db"), WithClock(fixedClock()))
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		defer s.Close()
		fn(t, s)
	})
}

var testAlbum = model.AlbumSnapshot{
	ID:          "album-1",
	Name:        "Illmatic",
	Artists:     []string{"Nas"},
	ReleaseDate: "1994-04-19",
	ImageURLs:   []string{"https://img/1", "https://img/2"},
}

func snapshot(id string, number int) model.TrackSnapshot {
	return model.TrackSnapshot{ID: id, Name: "Track " + id, TrackNumber: number, DurationMs: 180000 + number}
}

func TestStore_ClassificationCreatesTrackAndAlbum(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		if got, err := s.GetTrack(ctx, "t1"); err != nil || got != nil {
			t.Fatalf("expected unknown track to be nil, got %+v, %v", got, err)
		}

		tr, err := s.UpsertTrackClassification(ctx, testAlbum, snapshot("t1", 1), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tr.IsSkitOrInterlude {
			t.Error("expected a new track without flag to be regular")
		}
		if tr.AlbumID != testAlbum.ID {
			t.Errorf("expected album id %s, got %s", testAlbum.ID, tr.AlbumID)
		}

		album, tracks, err := s.AlbumTracks(ctx, testAlbum.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if album.Artist != "Nas" || album.ImageURL == nil || *album.ImageURL != "https://img/1" {
			t.Errorf("unexpected album %+v", album)
		}
		if len(tracks) != 1 || tracks[0].Rating != nil {
			t.Errorf("expected one unrated track, got %+v", tracks)
		}

		c := s.Count(ctx)
		if c != (Counts{Albums: 1, Tracks: 1}) {
			t.Errorf("unexpected counts %+v", c)
		}
	})
}

func TestStore_ClassificationUpdatesOnlyFlag(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.UpsertTrackClassification(ctx, testAlbum, snapshot("t1", 1), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		renamed := snapshot("t1", 9)
		renamed.Name = "Different"
		tr, err := s.UpsertTrackClassification(ctx, testAlbum, renamed, boolp(true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tr.IsSkitOrInterlude {
			t.Error("expected flag to be set")
		}
		if tr.Name != "Track t1" || tr.TrackNumber != 1 {
			t.Errorf("expected other fields untouched, got %+v", tr)
		}

		// Absent flag leaves the existing track alone.
		tr, err = s.UpsertTrackClassification(ctx, testAlbum, snapshot("t1", 1), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tr.IsSkitOrInterlude {
			t.Error("expected flag to survive a save without flag")
		}

		tr, err = s.UpsertTrackClassification(ctx, testAlbum, snapshot("t1", 1), boolp(false))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tr.IsSkitOrInterlude {
			t.Error("expected flag to be cleared")
		}
		if c := s.Count(ctx); c.Tracks != 1 || c.Albums != 1 {
			t.Errorf("expected one track and album, got %+v", c)
		}
	})
}

func TestStore_AlbumIsImmutable(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.UpsertTrackClassification(ctx, testAlbum, snapshot("t1", 1), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		changed := testAlbum
		changed.Name = "Renamed"
		if _, err := s.UpsertTrackClassification(ctx, changed, snapshot("t2", 2), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		album, tracks, err := s.AlbumTracks(ctx, testAlbum.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if album.Name != "Illmatic" {
			t.Errorf("expected album to keep its first name, got %q", album.Name)
		}
		if len(tracks) != 2 {
			t.Errorf("expected two tracks, got %d", len(tracks))
		}
	})
}

func TestStore_UpsertRatingIdempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		dims := model.Dimensions{Beat: 18, Lyrics: 15, Flow: 17, Content: 14, ReplayValue: 16}

		first, err := s.UpsertRating(ctx, "t1", dims, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := s.UpsertRating(ctx, "t1", dims, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Dimensions != second.Dimensions || second.Notes != nil {
			t.Errorf("expected identical records, got %+v and %+v", first, second)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("expected created_at to be kept, got %v then %v", first.CreatedAt, second.CreatedAt)
		}
		if !second.UpdatedAt.After(first.UpdatedAt) {
			t.Errorf("expected updated_at to move forward, got %v then %v", first.UpdatedAt, second.UpdatedAt)
		}
		if c := s.Count(ctx); c.Ratings != 1 {
			t.Errorf("expected one rating, got %d", c.Ratings)
		}
	})
}

func TestStore_UpsertRatingReplacesWholeRecord(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.UpsertRating(ctx, "t1", model.Dimensions{Beat: 10, Lyrics: 10, Flow: 10, Content: 10, ReplayValue: 10}, strp("first")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		next := model.Dimensions{Beat: 20, Lyrics: 0, Flow: 5, Content: 6, ReplayValue: 7}
		if _, err := s.UpsertRating(ctx, "t1", next, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := s.GetRating(ctx, "t1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Dimensions != next {
			t.Fatalf("expected %+v, got %+v", next, got)
		}
		if got.Notes != nil {
			t.Errorf("expected notes to be cleared, got %q", *got.Notes)
		}

		if r, err := s.GetRating(ctx, "missing"); err != nil || r != nil {
			t.Errorf("expected nil rating for unknown track, got %+v, %v", r, err)
		}
	})
}

func TestStore_ReturnedNotesAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	notes := "classic"
	if _, err := s.UpsertRating(ctx, "t1", model.Dimensions{}, &notes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	notes = "changed"

	got, _ := s.GetRating(ctx, "t1")
	if got.Notes == nil || *got.Notes != "classic" {
		t.Fatalf("expected stored notes to be isolated from caller, got %v", got.Notes)
	}
	*got.Notes = "mutated"
	again, _ := s.GetRating(ctx, "t1")
	if *again.Notes != "classic" {
		t.Errorf("expected returned notes to be a copy, got %q", *again.Notes)
	}
}

func TestStore_ConcurrentUpsertsNeverMix(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := model.Dimensions{Beat: 1, Lyrics: 1, Flow: 1, Content: 1, ReplayValue: 1}
		b := model.Dimensions{Beat: 20, Lyrics: 20, Flow: 20, Content: 20, ReplayValue: 20}

		var wg sync.WaitGroup
		errs := make(chan error, 100)
		for i := 0; i < 50; i++ {
			for _, d := range []model.Dimensions{a, b} {
				wg.Add(1)
				go func(d model.Dimensions) {
					defer wg.Done()
					if _, err := s.UpsertRating(ctx, "t1", d, nil); err != nil {
						errs <- err
					}
				}(d)
			}
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := s.GetRating(ctx, "t1")
		if err != nil || got == nil {
			t.Fatalf("expected a rating, got %+v, %v", got, err)
		}
		if got.Dimensions != a && got.Dimensions != b {
			t.Errorf("expected one of the submitted records, got mixed %+v", got.Dimensions)
		}
	})
}

func TestStore_RatedAlbums(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		albums := []string{"c-album", "a-album", "b-album"}
		for i, id := range albums {
			snap := model.AlbumSnapshot{ID: id, Name: id, Artists: []string{"X"}}
			for n := 3; n >= 1; n-- {
				if _, err := s.UpsertTrackClassification(ctx, snap, snapshot(fmt.Sprintf("%s-%d", id, n), n), nil); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			// b-album stays unrated.
			if id != "b-album" {
				if _, err := s.UpsertRating(ctx, fmt.Sprintf("%s-%d", id, i+1), model.Dimensions{Beat: 10}, nil); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		}

		rated, err := s.RatedAlbums(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rated) != 2 {
			t.Fatalf("expected two rated albums, got %d", len(rated))
		}
		if rated[0].Album.ID != "a-album" || rated[1].Album.ID != "c-album" {
			t.Errorf("expected albums ordered by id, got %s, %s", rated[0].Album.ID, rated[1].Album.ID)
		}
		for _, at := range rated {
			if len(at.Tracks) != 3 {
				t.Fatalf("expected all three tracks of %s, got %d", at.Album.ID, len(at.Tracks))
			}
			for i, tr := range at.Tracks {
				if tr.Track.TrackNumber != i+1 {
					t.Errorf("expected tracks ordered by number, got %d at %d", tr.Track.TrackNumber, i)
				}
			}
		}
	})
}

func TestStore_AlbumTracksUnknown(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, _, err := s.AlbumTracks(context.Background(), "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := NewSQLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.UpsertTrackClassification(ctx, testAlbum, snapshot("t1", 1), boolp(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.UpsertRating(ctx, "t1", model.Dimensions{Beat: 5}, strp("kept")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewSQLStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	tr, err := s.GetTrack(ctx, "t1")
	if err != nil || tr == nil || !tr.IsSkitOrInterlude {
		t.Fatalf("expected persisted skit track, got %+v, %v", tr, err)
	}
	r, err := s.GetRating(ctx, "t1")
	if err != nil || r == nil || r.Notes == nil || *r.Notes != "kept" {
		t.Fatalf("expected persisted rating, got %+v, %v", r, err)
	}
}
