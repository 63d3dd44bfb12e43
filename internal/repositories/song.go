package repositories

import (
	"database/sql"
	"fmt"

	"github.com/twsweeney/tunescope/internal/extract"
)

// SongRepository persists song rows and their audio feature merges.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// InsertBatch writes song identity rows. Feature columns stay NULL until
// merged; tombstoned records (empty song id) are counted as skipped.
func (r *SongRepository) InsertBatch(records []extract.SongRecord) (BatchResult, error) {
	query := `
		INSERT INTO songs (song_id, title, album_name, album_id, duration_ms, release_date, popularity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var result BatchResult
	for _, rec := range records {
		if rec.SongID == "" {
			result.Skipped++
			continue
		}

		outcome, err := insertOutcome(r.db, query,
			rec.SongID, rec.Title, rec.AlbumName, rec.AlbumID, rec.DurationMS, rec.ReleaseDate, rec.Popularity)
		if err != nil {
			return result, fmt.Errorf("failed to insert song %s: %w", rec.SongID, err)
		}
		switch outcome {
		case OutcomeApplied:
			result.Applied++
		case OutcomeConflict:
			result.Conflicts++
		}
	}
	return result, nil
}

// MergeFeatures fills the nine audio descriptor columns for songs that
// already have identity rows. Records whose song is not stored count as
// skipped.
func (r *SongRepository) MergeFeatures(records []extract.FeatureRecord) (BatchResult, error) {
	query := `
		UPDATE songs
		SET acousticness = ?, danceability = ?, energy = ?, instrumentalness = ?,
			liveness = ?, loudness = ?, speechiness = ?, tempo = ?, valence = ?
		WHERE song_id = ?
	`

	var result BatchResult
	for _, rec := range records {
		if rec.SongID == "" {
			result.Skipped++
			continue
		}

		res, err := r.db.Exec(query,
			rec.Acousticness, rec.Danceability, rec.Energy, rec.Instrumentalness,
			rec.Liveness, rec.Loudness, rec.Speechiness, rec.Tempo, rec.Valence,
			rec.SongID)
		if err != nil {
			return result, fmt.Errorf("failed to merge features for %s: %w", rec.SongID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return result, fmt.Errorf("failed to read merge result for %s: %w", rec.SongID, err)
		}
		if affected > 0 {
			result.Applied++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

// FeatureGaps returns the ids of songs in the playlist that still miss
// any audio descriptor, partitioned into chunks of at most chunkSize
// ids. Every gap appears in exactly one chunk.
func (r *SongRepository) FeatureGaps(playlistID string, chunkSize int) ([][]string, error) {
	query := `
		SELECT s.song_id
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.song_id
		WHERE ps.playlist_id = ?
			AND (s.acousticness IS NULL OR s.danceability IS NULL OR s.energy IS NULL
				OR s.instrumentalness IS NULL OR s.liveness IS NULL OR s.loudness IS NULL
				OR s.speechiness IS NULL OR s.tempo IS NULL OR s.valence IS NULL)
		ORDER BY s.song_id
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature gaps for %s: %w", playlistID, err)
	}

	ids, err := collectIDs(rows)
	if err != nil {
		return nil, err
	}
	return chunkIDs(ids, chunkSize), nil
}
