package repositories

import (
	"database/sql"
	"fmt"

	"github.com/twsweeney/tunescope/internal/extract"
)

// ArtistRepository persists artist rows, their popularity and genre
// merges, and the global enrichment gap query.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// InsertBatch writes artist identity rows from track credits. Popularity
// stays NULL until merged; artists credited on several songs conflict on
// every appearance after the first.
func (r *ArtistRepository) InsertBatch(credits []extract.ArtistCreditRecord) (BatchResult, error) {
	query := `INSERT INTO artists (artist_id, name) VALUES (?, ?)`

	var result BatchResult
	for _, credit := range credits {
		if credit.ArtistID == "" {
			result.Skipped++
			continue
		}

		outcome, err := insertOutcome(r.db, query, credit.ArtistID, credit.Name)
		if err != nil {
			return result, fmt.Errorf("failed to insert artist %s: %w", credit.ArtistID, err)
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

// MergeDetails fills popularity for stored artists and writes their
// genre rows. Genre rows already present count as conflicts; details for
// unknown artists count as skipped.
func (r *ArtistRepository) MergeDetails(records []extract.ArtistDetailRecord) (BatchResult, error) {
	update := `UPDATE artists SET popularity = ? WHERE artist_id = ?`
	insertGenre := `INSERT INTO artist_genres (artist_id, genre) VALUES (?, ?)`

	var result BatchResult
	for _, rec := range records {
		if rec.ArtistID == "" {
			result.Skipped++
			continue
		}

		res, err := r.db.Exec(update, rec.Popularity, rec.ArtistID)
		if err != nil {
			return result, fmt.Errorf("failed to merge popularity for %s: %w", rec.ArtistID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return result, fmt.Errorf("failed to read merge result for %s: %w", rec.ArtistID, err)
		}
		if affected == 0 {
			result.Skipped++
			continue
		}
		result.Applied++

		for _, genre := range rec.Genres {
			outcome, err := insertOutcome(r.db, insertGenre, rec.ArtistID, genre)
			if err != nil {
				return result, fmt.Errorf("failed to insert genre %q for %s: %w", genre, rec.ArtistID, err)
			}
			if outcome == OutcomeConflict {
				result.Conflicts++
			}
		}
	}
	return result, nil
}

// Gaps returns the ids of all stored artists still missing enrichment,
// meaning popularity is unset or no genre rows exist, partitioned into
// chunks of at most chunkSize ids. Every gap appears in exactly one
// chunk, artists with several genre rows included.
func (r *ArtistRepository) Gaps(chunkSize int) ([][]string, error) {
	query := `
		SELECT DISTINCT a.artist_id
		FROM artists a
		LEFT JOIN artist_genres g ON g.artist_id = a.artist_id
		WHERE a.popularity IS NULL OR g.artist_id IS NULL
		ORDER BY a.artist_id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist gaps: %w", err)
	}

	ids, err := collectIDs(rows)
	if err != nil {
		return nil, err
	}
	return chunkIDs(ids, chunkSize), nil
}
