package smoke

// Wire shapes of the tracklist HTTP API, kept local so the tool only
// depends on the public contract.

// CatalogAlbum is the album object accepted by POST /tracks.
type CatalogAlbum struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres,omitempty"`
}

// CatalogTrack is the track object accepted by POST /tracks.
type CatalogTrack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TrackNumber int    `json:"track_number"`
	DurationMs  int    `json:"duration_ms"`
}

type classifyRequest struct {
	Album             CatalogAlbum `json:"album"`
	Track             CatalogTrack `json:"track"`
	IsSkitOrInterlude *bool        `json:"is_skit_or_interlude,omitempty"`
}

// RatingRequest is the body of POST /ratings.
type RatingRequest struct {
	TrackID     string `json:"track_id"`
	Beat        int    `json:"beat"`
	Lyrics      int    `json:"lyrics"`
	Flow        int    `json:"flow"`
	Content     int    `json:"content"`
	ReplayValue int    `json:"replay_value"`
}

type albumRating struct {
	AlbumID     string   `json:"album_id"`
	AlbumRating *float64 `json:"album_rating"`
	RatedTracks int      `json:"rated_tracks"`
	TotalTracks int      `json:"total_tracks"`
	Summary     string   `json:"summary"`
}

type ratedAlbum struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Artist string  `json:"artist"`
	Rating float64 `json:"rating"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
