package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/pkg/metrics"
)

const sqliteDriver = "sqlite"

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

type albumRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Artist      string `gorm:"not null"`
	ReleaseDate *string
	ImageURL    *string
	Genre       *string
	CreatedAt   time.Time
}

func (albumRow) TableName() string { return "albums" }

type trackRow struct {
	ID                string `gorm:"primaryKey"`
	AlbumID           string `gorm:"not null;index"`
	Name              string `gorm:"not null"`
	TrackNumber       int
	DurationMs        int
	IsSkitOrInterlude bool `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (trackRow) TableName() string { return "tracks" }

type ratingRow struct {
	TrackID     string `gorm:"primaryKey"`
	Beat        int    `gorm:"not null;check:beat BETWEEN 0 AND 20"`
	Lyrics      int    `gorm:"not null;check:lyrics BETWEEN 0 AND 20"`
	Flow        int    `gorm:"not null;check:flow BETWEEN 0 AND 20"`
	Content     int    `gorm:"not null;check:content BETWEEN 0 AND 20"`
	ReplayValue int    `gorm:"not null;check:replay_value BETWEEN 0 AND 20"`
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ratingRow) TableName() string { return "ratings" }

// SQLStore is a Store backed by SQLite through GORM.
//
// Every upsert is one INSERT ... ON CONFLICT statement inside a
// transaction, so a record is always replaced as a whole.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens (creating if needed) the SQLite database at path and
// migrates the schema. Use MemoryDSN for a throwaway database.
func NewSQLStore(path string, opts ...Option) (*SQLStore, error) {
	o := buildOptions(opts)

	dsn := path
	if path != MemoryDSN {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  o.sqlLogger,
		NowFunc: o.now,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps an
	// in-memory database shared by every query.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&albumRow{}, &trackRow{}, &ratingRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLStore{db: db, now: o.now}, nil
}

// GetRating implements RatingStore.GetRating.
func (s *SQLStore) GetRating(ctx context.Context, trackID string) (r *model.Rating, err error) {
	defer func(start time.Time) { observe(sqliteDriver, "get_rating", start, err) }(time.Now())

	var row ratingRow
	err = s.db.WithContext(ctx).Where("track_id = ?", trackID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating %s: %w", trackID, err)
	}
	rating := row.toModel()
	return &rating, nil
}

// UpsertRating implements RatingStore.UpsertRating.
func (s *SQLStore) UpsertRating(ctx context.Context, trackID string, dims model.Dimensions, notes *string) (r model.Rating, err error) {
	defer func(start time.Time) { observe(sqliteDriver, "upsert_rating", start, err) }(time.Now())

	now := s.now()
	row := ratingRow{
		TrackID:     trackID,
		Beat:        dims.Beat,
		Lyrics:      dims.Lyrics,
		Flow:        dims.Flow,
		Content:     dims.Content,
		ReplayValue: dims.ReplayValue,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "track_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"beat", "lyrics", "flow", "content", "replay_value", "notes", "updated_at",
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("track_id = ?", trackID).Take(&row).Error
	})
	if err != nil {
		return model.Rating{}, fmt.Errorf("upsert rating %s: %w", trackID, err)
	}
	return row.toModel(), nil
}

// GetTrack implements TrackStore.GetTrack.
func (s *SQLStore) GetTrack(ctx context.Context, trackID string) (t *model.Track, err error) {
	defer func(start time.Time) { observe(sqliteDriver, "get_track", start, err) }(time.Now())

	var row trackRow
	err = s.db.WithContext(ctx).Where("id = ?", trackID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track %s: %w", trackID, err)
	}
	track := row.toModel()
	return &track, nil
}

// UpsertTrackClassification implements TrackStore.UpsertTrackClassification.
func (s *SQLStore) UpsertTrackClassification(ctx context.Context, album model.AlbumSnapshot, track model.TrackSnapshot, isSkit *bool) (t model.Track, err error) {
	defer func(start time.Time) { observe(sqliteDriver, "upsert_track", start, err) }(time.Now())

	now := s.now()
	a := albumRowFrom(model.NewAlbum(album))
	a.CreatedAt = now
	row := trackRowFrom(model.NewTrack(album.ID, track, isSkit))
	row.CreatedAt, row.UpdatedAt = now, now

	// A new track takes the snapshot; an existing one only changes its
	// flag, and only when a flag was given.
	onTrack := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}
	if isSkit != nil {
		onTrack = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_skit_or_interlude", "updated_at"}),
		}
	}

	albumCreated := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&a)
		if res.Error != nil {
			return res.Error
		}
		albumCreated = res.RowsAffected == 1
		if err := tx.Clauses(onTrack).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", track.ID).Take(&row).Error
	})
	if err != nil {
		return model.Track{}, fmt.Errorf("upsert track %s: %w", track.ID, err)
	}
	if albumCreated {
		metrics.RecordAlbumCreated()
	}
	return row.toModel(), nil
}

// AlbumTracks implements TrackStore.AlbumTracks.
func (s *SQLStore) AlbumTracks(ctx context.Context, albumID string) (a model.Album, tracks []model.TrackRating, err error) {
	defer func(start time.Time) { observe(sqliteDriver, "album_tracks", start, err) }(time.Now())

	db := s.db.WithContext(ctx)
	var row albumRow
	err = db.Where("id = ?", albumID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Album{}, nil, ErrNotFound
	}
	if err != nil {
		return model.Album{}, nil, fmt.Errorf("get album %s: %w", albumID, err)
	}
	byAlbum, err := s.loadTracks(db, []string{albumID})
	if err != nil {
		return model.Album{}, nil, err
	}
	tracks = byAlbum[albumID]
	if tracks == nil {
		tracks = []model.TrackRating{}
	}
	return row.toModel(), tracks, nil
}

// RatedAlbums implements TrackStore.RatedAlbums.
func (s *SQLStore) RatedAlbums(ctx context.Context) (out []model.AlbumTracks, err error) {
	defer func(start time.Time) { observe(sqliteDriver, "rated_albums", start, err) }(time.Now())

	db := s.db.WithContext(ctx)
	rated := db.Model(&trackRow{}).
		Select("tracks.album_id").
		Joins("JOIN ratings ON ratings.track_id = tracks.id")

	var rows []albumRow
	if err = db.Where("id IN (?)", rated).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list rated albums: %w", err)
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	byAlbum, err := s.loadTracks(db, ids)
	if err != nil {
		return nil, err
	}

	out = make([]model.AlbumTracks, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.AlbumTracks{Album: r.toModel(), Tracks: byAlbum[r.ID]})
	}
	return out, nil
}

// loadTracks fetches the tracks of the given albums with their ratings,
// grouped by album id and ordered by track number.
func (s *SQLStore) loadTracks(db *gorm.DB, albumIDs []string) (map[string][]model.TrackRating, error) {
	out := make(map[string][]model.TrackRating, len(albumIDs))
	if len(albumIDs) == 0 {
		return out, nil
	}

	var tracks []trackRow
	err := db.Where("album_id IN ?", albumIDs).Order("track_number").Order("id").Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	if len(tracks) == 0 {
		return out, nil
	}

	trackIDs := make([]string, len(tracks))
	for i, t := range tracks {
		trackIDs[i] = t.ID
	}
	var ratings []ratingRow
	if err := db.Where("track_id IN ?", trackIDs).Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	byTrack := make(map[string]model.Rating, len(ratings))
	for _, r := range ratings {
		byTrack[r.TrackID] = r.toModel()
	}

	for _, t := range tracks {
		tr := model.TrackRating{Track: t.toModel()}
		if r, ok := byTrack[t.ID]; ok {
			tr.Rating = &r
		}
		out[t.AlbumID] = append(out[t.AlbumID], tr)
	}
	return out, nil
}

// Count implements TrackStore.Count. Failed counts report zero.
func (s *SQLStore) Count(ctx context.Context) Counts {
	db := s.db.WithContext(ctx)
	var albums, tracks, ratings int64
	db.Model(&albumRow{}).Count(&albums)
	db.Model(&trackRow{}).Count(&tracks)
	db.Model(&ratingRow{}).Count(&ratings)
	return Counts{Albums: int(albums), Tracks: int(tracks), Ratings: int(ratings)}
}

// Close implements Store.Close.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func albumRowFrom(a model.Album) albumRow {
	return albumRow{
		ID:          a.ID,
		Name:        a.Name,
		Artist:      a.Artist,
		ReleaseDate: a.ReleaseDate,
		ImageURL:    a.ImageURL,
		Genre:       a.Genre,
	}
}

func (r albumRow) toModel() model.Album {
	return model.Album{
		ID:          r.ID,
		Name:        r.Name,
		Artist:      r.Artist,
		ReleaseDate: r.ReleaseDate,
		ImageURL:    r.ImageURL,
		Genre:       r.Genre,
	}
}

func trackRowFrom(t model.Track) trackRow {
	return trackRow{
		ID:                t.ID,
		AlbumID:           t.AlbumID,
		Name:              t.Name,
		TrackNumber:       t.TrackNumber,
		DurationMs:        t.DurationMs,
		IsSkitOrInterlude: t.IsSkitOrInterlude,
	}
}

func (r trackRow) toModel() model.Track {
	return model.Track{
		ID:                r.ID,
		AlbumID:           r.AlbumID,
		Name:              r.Name,
		TrackNumber:       r.TrackNumber,
		DurationMs:        r.DurationMs,
		IsSkitOrInterlude: r.IsSkitOrInterlude,
	}
}

func (r ratingRow) toModel() model.Rating {
	return model.Rating{
		TrackID: r.TrackID,
		Dimensions: model.Dimensions{
			Beat:        r.Beat,
			Lyrics:      r.Lyrics,
			Flow:        r.Flow,
			Content:     r.Content,
			ReplayValue: r.ReplayValue,
		},
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
