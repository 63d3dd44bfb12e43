package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/twsweeney/tunescope/internal/extract"
)

// PlaylistRepository persists playlist identity rows and the timestamp
// window derived from each sync pass.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// InsertBatch writes playlist identity rows, one statement per row.
// Playlists already known keep their stored row untouched.
func (r *PlaylistRepository) InsertBatch(records []extract.PlaylistRecord) (BatchResult, error) {
	query := `
		INSERT INTO playlists (playlist_id, name, owner_id, is_collaborative, app_user_id)
		VALUES (?, ?, ?, ?, ?)
	`

	var result BatchResult
	for _, rec := range records {
		if rec.PlaylistID == "" {
			result.Skipped++
			continue
		}

		outcome, err := insertOutcome(r.db, query, rec.PlaylistID, rec.Name, rec.OwnerID, rec.IsCollaborative, rec.AppUserID)
		if err != nil {
			return result, fmt.Errorf("failed to insert playlist %s: %w", rec.PlaylistID, err)
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

// MergeWindow sets the playlist's created_date and last_updated to the
// bounds of the current batch's added dates. A nil bound leaves the
// stored value untouched.
func (r *PlaylistRepository) MergeWindow(playlistID string, earliest, latest *time.Time) error {
	query := `
		UPDATE playlists
		SET created_date = COALESCE(?, created_date), last_updated = COALESCE(?, last_updated)
		WHERE playlist_id = ?
	`

	if _, err := r.db.Exec(query, earliest, latest, playlistID); err != nil {
		return fmt.Errorf("failed to merge playlist window for %s: %w", playlistID, err)
	}
	return nil
}

// DeleteForUser removes every playlist owned by the app user. Membership
// rows cascade away; songs and artists referenced elsewhere stay.
func (r *PlaylistRepository) DeleteForUser(appUserID string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM playlists WHERE app_user_id = ?`, appUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete playlists for %s: %w", appUserID, err)
	}
	return result.RowsAffected()
}
