package api

import (
	"time"

	"github.com/okian/tracklist/internal/adapters/catalog"
	"github.com/okian/tracklist/internal/domain/collection"
	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/internal/domain/scoring"
	"github.com/okian/tracklist/internal/domain/types"
)

// noRatingsMessage accompanies an album rating of null.
const noRatingsMessage = "No rated tracks found for this album"

// classifyRequest mirrors the OpenAPI schema for POST /tracks. Album and
// track use the shapes returned by GET /search.
type classifyRequest struct {
	Album             catalog.Album `json:"album"`
	Track             catalog.Track `json:"track"`
	IsSkitOrInterlude *bool         `json:"is_skit_or_interlude"`
}

func (c classifyRequest) toModel() model.ClassifyRequest {
	return model.ClassifyRequest{
		Album:             c.Album.Snapshot(),
		Track:             c.Track.Snapshot(),
		IsSkitOrInterlude: c.IsSkitOrInterlude,
	}
}

// ratingRequest mirrors the OpenAPI schema for POST /ratings.
type ratingRequest struct {
	TrackID     string  `json:"track_id"`
	Beat        *int    `json:"beat"`
	Lyrics      *int    `json:"lyrics"`
	Flow        *int    `json:"flow"`
	Content     *int    `json:"content"`
	ReplayValue *int    `json:"replay_value"`
	Notes       *string `json:"notes"`
}

func (r ratingRequest) toModel() model.RatingSubmission {
	return model.RatingSubmission{
		TrackID:     r.TrackID,
		Beat:        r.Beat,
		Lyrics:      r.Lyrics,
		Flow:        r.Flow,
		Content:     r.Content,
		ReplayValue: r.ReplayValue,
		Notes:       r.Notes,
	}
}

type trackResponse struct {
	ID                string `json:"id"`
	AlbumID           string `json:"album_id"`
	Name              string `json:"name"`
	TrackNumber       int    `json:"track_number"`
	DurationMs        int    `json:"duration_ms"`
	IsSkitOrInterlude bool   `json:"is_skit_or_interlude"`
}

func newTrackResponse(t model.Track) trackResponse {
	return trackResponse{
		ID:                t.ID,
		AlbumID:           t.AlbumID,
		Name:              t.Name,
		TrackNumber:       t.TrackNumber,
		DurationMs:        t.DurationMs,
		IsSkitOrInterlude: t.IsSkitOrInterlude,
	}
}

type ratingResponse struct {
	TrackID     string    `json:"track_id"`
	Beat        int       `json:"beat"`
	Lyrics      int       `json:"lyrics"`
	Flow        int       `json:"flow"`
	Content     int       `json:"content"`
	ReplayValue int       `json:"replay_value"`
	Notes       *string   `json:"notes"`
	Average     float64   `json:"average_rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newRatingResponse(r model.Rating) ratingResponse {
	return ratingResponse{
		TrackID:     r.TrackID,
		Beat:        r.Beat,
		Lyrics:      r.Lyrics,
		Flow:        r.Flow,
		Content:     r.Content,
		ReplayValue: r.ReplayValue,
		Notes:       r.Notes,
		Average:     scoring.Round1(scoring.TrackScore(r)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type albumResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	ReleaseDate *string `json:"release_date"`
	ImageURL    *string `json:"image_url"`
	Genre       *string `json:"genre"`
	Year        *int    `json:"year"`
	Decade      *int    `json:"decade"`
}

func newAlbumResponse(a model.Album) albumResponse {
	out := albumResponse{
		ID:          a.ID,
		Name:        a.Name,
		Artist:      a.Artist,
		ReleaseDate: a.ReleaseDate,
		ImageURL:    a.ImageURL,
		Genre:       a.Genre,
	}
	if y, ok := a.Year(); ok {
		d := model.DecadeOf(y)
		out.Year, out.Decade = &y, &d
	}
	return out
}

type trackScoreResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TrackNumber   int     `json:"track_number"`
	AverageRating float64 `json:"average_rating"`
}

type albumRatingResponse struct {
	AlbumID      string               `json:"album_id"`
	Album        *albumResponse       `json:"album"`
	AlbumRating  *float64             `json:"album_rating"`
	RatedTracks  int                  `json:"rated_tracks"`
	TotalTracks  int                  `json:"total_tracks"`
	Summary      string               `json:"summary"`
	Message      string               `json:"message,omitempty"`
	TrackRatings []trackScoreResponse `json:"track_ratings"`
}

func newAlbumRatingResponse(r types.AlbumReport) albumRatingResponse {
	out := albumRatingResponse{
		AlbumID:      r.AlbumID,
		AlbumRating:  rounded(r.Aggregate),
		RatedTracks:  r.Aggregate.RatedTracks,
		TotalTracks:  r.Aggregate.RatableTracks,
		Summary:      r.Summary(),
		TrackRatings: make([]trackScoreResponse, 0, len(r.Tracks)),
	}
	if r.Album != nil {
		a := newAlbumResponse(*r.Album)
		out.Album = &a
	}
	if out.AlbumRating == nil {
		out.Message = noRatingsMessage
	}
	for _, t := range r.Tracks {
		out.TrackRatings = append(out.TrackRatings, trackScoreResponse{
			ID:            t.Track.ID,
			Name:          t.Track.Name,
			TrackNumber:   t.Track.TrackNumber,
			AverageRating: scoring.Round1(t.Score),
		})
	}
	return out
}

type ratedAlbumResponse struct {
	albumResponse
	Rating      float64 `json:"rating"`
	RatedTracks int     `json:"rated_tracks"`
	TotalTracks int     `json:"total_tracks"`
}

func newRatedAlbumsResponse(entries []collection.Entry) []ratedAlbumResponse {
	out := make([]ratedAlbumResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ratedAlbumResponse{
			albumResponse: newAlbumResponse(e.Album),
			Rating:        scoring.Round1(e.Aggregate.ScoreOrZero()),
			RatedTracks:   e.Aggregate.RatedTracks,
			TotalTracks:   e.Aggregate.RatableTracks,
		})
	}
	return out
}

type facetsResponse struct {
	Decades []int `json:"decades"`
	Years   []int `json:"years"`
}

// rounded returns the one-decimal album score, or nil when unrated.
func rounded(a scoring.Aggregate) *float64 {
	if a.Score == nil {
		return nil
	}
	v := scoring.Round1(*a.Score)
	return &v
}
