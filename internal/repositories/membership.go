package repositories

import (
	"database/sql"
	"fmt"

	"github.com/twsweeney/tunescope/internal/extract"
)

// PlaylistSongRepository persists playlist membership junction rows.
type PlaylistSongRepository struct {
	db *sql.DB
}

// NewPlaylistSongRepository creates a new PlaylistSongRepository with the given database connection
func NewPlaylistSongRepository(db *sql.DB) *PlaylistSongRepository {
	return &PlaylistSongRepository{db: db}
}

// InsertBatch writes membership rows. Tombstoned entries (empty song id)
// are counted as skipped; re-synced memberships conflict and keep their
// original added date.
func (r *PlaylistSongRepository) InsertBatch(records []extract.MembershipRecord) (BatchResult, error) {
	query := `
		INSERT INTO playlist_songs (playlist_id, song_id, added_date, added_by)
		VALUES (?, ?, ?, ?)
	`

	var result BatchResult
	for _, rec := range records {
		if rec.SongID == "" || rec.PlaylistID == "" {
			result.Skipped++
			continue
		}

		outcome, err := insertOutcome(r.db, query, rec.PlaylistID, rec.SongID, rec.AddedAt, rec.AddedBy)
		if err != nil {
			return result, fmt.Errorf("failed to insert membership %s/%s: %w", rec.PlaylistID, rec.SongID, err)
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

// SongArtistRepository persists song credit junction rows.
type SongArtistRepository struct {
	db *sql.DB
}

// NewSongArtistRepository creates a new SongArtistRepository with the given database connection
func NewSongArtistRepository(db *sql.DB) *SongArtistRepository {
	return &SongArtistRepository{db: db}
}

// InsertBatch writes song credit rows from track credits. Both the song
// and the artist row must already exist; tombstoned credits are skipped.
func (r *SongArtistRepository) InsertBatch(credits []extract.ArtistCreditRecord) (BatchResult, error) {
	query := `INSERT INTO song_artists (song_id, artist_id) VALUES (?, ?)`

	var result BatchResult
	for _, credit := range credits {
		if credit.SongID == "" || credit.ArtistID == "" {
			result.Skipped++
			continue
		}

		outcome, err := insertOutcome(r.db, query, credit.SongID, credit.ArtistID)
		if err != nil {
			return result, fmt.Errorf("failed to insert credit %s/%s: %w", credit.SongID, credit.ArtistID, err)
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
