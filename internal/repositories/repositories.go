package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Outcome tags the result of a single-row write.
type Outcome int

const (
	// OutcomeApplied means the row was written.
	OutcomeApplied Outcome = iota
	// OutcomeConflict means an identical identity already existed and the
	// row was left untouched.
	OutcomeConflict
)

// BatchResult aggregates per-row outcomes of a batch write.
type BatchResult struct {
	// Applied counts rows written.
	Applied int
	// Conflicts counts rows skipped because their identity already existed.
	Conflicts int
	// Skipped counts rows dropped pre-emptively, e.g. tombstoned tracks
	// with no song id.
	Skipped int
}

// Merge folds another result into r.
func (r *BatchResult) Merge(other BatchResult) {
	r.Applied += other.Applied
	r.Conflicts += other.Conflicts
	r.Skipped += other.Skipped
}

// Total returns the number of rows the batch accounted for.
func (r BatchResult) Total() int {
	return r.Applied + r.Conflicts + r.Skipped
}

// Store bundles all repositories over one database handle.
type Store struct {
	Playlists   *PlaylistRepository
	Songs       *SongRepository
	Artists     *ArtistRepository
	Memberships *PlaylistSongRepository
	Credits     *SongArtistRepository
	Analytics   *AnalyticsRepository
}

// NewStore creates repositories sharing the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Playlists:   NewPlaylistRepository(db),
		Songs:       NewSongRepository(db),
		Artists:     NewArtistRepository(db),
		Memberships: NewPlaylistSongRepository(db),
		Credits:     NewSongArtistRepository(db),
		Analytics:   NewAnalyticsRepository(db),
	}
}

// isUniqueViolation reports whether err is a primary-key or unique
// constraint violation. Foreign-key violations are real errors and do
// not match.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// insertOutcome executes a single-row INSERT and classifies the result.
func insertOutcome(db *sql.DB, query string, args ...any) (Outcome, error) {
	if _, err := db.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			return OutcomeConflict, nil
		}
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	return OutcomeApplied, nil
}

// chunkIDs partitions ids into consecutive chunks of at most size
// elements. size <= 0 yields a single chunk.
func chunkIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 || size >= len(ids) {
		return [][]string{ids}
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// collectIDs drains a single-column id result set.
func collectIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// timePtr converts a nullable scan target into a *time.Time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
