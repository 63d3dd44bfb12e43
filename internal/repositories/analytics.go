package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twsweeney/tunescope/internal/shared"
)

// FeatureNames lists the audio descriptors in canonical report order.
var FeatureNames = []string{
	"acousticness", "danceability", "energy", "instrumentalness",
	"liveness", "loudness", "speechiness", "tempo", "valence",
}

// featureColumns renders the nine descriptor columns qualified by a
// table alias, in [FeatureNames] order.
func featureColumns(alias string) string {
	cols := make([]string, len(FeatureNames))
	for i, name := range FeatureNames {
		cols[i] = alias + "." + name
	}
	return strings.Join(cols, ", ")
}

// PlaylistSummary is one row of the playlist listing.
type PlaylistSummary struct {
	PlaylistID      string
	Name            string
	OwnerID         string
	IsCollaborative bool
	CreatedDate     *time.Time
	LastUpdated     *time.Time
	SongCount       int
}

// SongFeatures is one song of a playlist with its credited artists and
// whichever audio descriptors have been merged. Values is keyed by
// [FeatureNames]; descriptors still NULL in the store are absent.
type SongFeatures struct {
	SongID  string
	Title   string
	Artists string
	Values  map[string]float64
}

// GenreCount is one genre with the number of credited songs carrying it.
type GenreCount struct {
	Genre string
	Count int
}

// HistoryEntry is one membership row of the user's listening history.
type HistoryEntry struct {
	SongID       string
	Title        string
	PlaylistName string
	AddedAt      *time.Time
	AddedBy      string
}

// TriviaSong is a randomly picked song with the fields the trivia game
// reveals as hints.
type TriviaSong struct {
	SongID      string
	Title       string
	Artists     string
	ReleaseDate *time.Time
}

// AnalyticsRepository serves the read-only queries behind reports,
// history, and trivia. It never writes.
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository with the given database connection
func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// PlaylistsForUser lists the app user's playlists, most recently updated
// first, with their current song counts.
func (r *AnalyticsRepository) PlaylistsForUser(appUserID string) ([]PlaylistSummary, error) {
	query := `
		SELECT p.playlist_id, p.name, p.owner_id, p.is_collaborative, p.created_date, p.last_updated,
			(SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.playlist_id) AS song_count
		FROM playlists p
		WHERE p.app_user_id = ?
		ORDER BY p.last_updated DESC
	`

	rows, err := r.db.Query(query, appUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for %s: %w", appUserID, err)
	}
	defer rows.Close()

	var summaries []PlaylistSummary
	for rows.Next() {
		var s PlaylistSummary
		var created, updated sql.NullTime
		if err := rows.Scan(&s.PlaylistID, &s.Name, &s.OwnerID, &s.IsCollaborative, &created, &updated, &s.SongCount); err != nil {
			return nil, fmt.Errorf("failed to scan playlist summary: %w", err)
		}
		s.CreatedDate = timePtr(created)
		s.LastUpdated = timePtr(updated)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// PlaylistByID fetches a single playlist summary. Unknown ids return
// [shared.ErrPlaylistNotFound].
func (r *AnalyticsRepository) PlaylistByID(playlistID string) (*PlaylistSummary, error) {
	query := `
		SELECT p.playlist_id, p.name, p.owner_id, p.is_collaborative, p.created_date, p.last_updated,
			(SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.playlist_id) AS song_count
		FROM playlists p
		WHERE p.playlist_id = ?
	`

	var s PlaylistSummary
	var created, updated sql.NullTime
	err := r.db.QueryRow(query, playlistID).
		Scan(&s.PlaylistID, &s.Name, &s.OwnerID, &s.IsCollaborative, &created, &updated, &s.SongCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist %s: %w", playlistID, err)
	}
	s.CreatedDate = timePtr(created)
	s.LastUpdated = timePtr(updated)
	return &s, nil
}

// scanSongFeatures drains a song-feature result set whose columns are
// song_id, title, artists, then the nine descriptors in canonical order.
func scanSongFeatures(rows *sql.Rows) ([]SongFeatures, error) {
	defer rows.Close()

	var songs []SongFeatures
	for rows.Next() {
		var s SongFeatures
		var artists sql.NullString
		values := make([]sql.NullFloat64, len(FeatureNames))

		dest := []any{&s.SongID, &s.Title, &artists}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan song features: %w", err)
		}

		s.Artists = artists.String
		s.Values = make(map[string]float64, len(FeatureNames))
		for i, name := range FeatureNames {
			if values[i].Valid {
				s.Values[name] = values[i].Float64
			}
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// PlaylistFeatures returns every song of the playlist with its credited
// artists joined into one string and its merged audio descriptors.
func (r *AnalyticsRepository) PlaylistFeatures(playlistID string) ([]SongFeatures, error) {
	query := `
		SELECT s.song_id, s.title, GROUP_CONCAT(DISTINCT a.name), ` + featureColumns(`s`) + `
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.song_id
		LEFT JOIN song_artists sa ON sa.song_id = s.song_id
		LEFT JOIN artists a ON a.artist_id = sa.artist_id
		WHERE ps.playlist_id = ?
		GROUP BY s.song_id
		ORDER BY s.title
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist features for %s: %w", playlistID, err)
	}
	return scanSongFeatures(rows)
}

// LibraryFeatures returns the songs of all of the user's playlists other
// than excludePlaylistID, for playlist-versus-library comparisons. A
// song in several other playlists appears once.
func (r *AnalyticsRepository) LibraryFeatures(appUserID, excludePlaylistID string) ([]SongFeatures, error) {
	query := `
		SELECT s.song_id, s.title, GROUP_CONCAT(DISTINCT a.name), ` + featureColumns(`s`) + `
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.song_id
		JOIN playlists p ON p.playlist_id = ps.playlist_id
		LEFT JOIN song_artists sa ON sa.song_id = s.song_id
		LEFT JOIN artists a ON a.artist_id = sa.artist_id
		WHERE p.app_user_id = ? AND ps.playlist_id != ?
		GROUP BY s.song_id
		ORDER BY s.title
	`

	rows, err := r.db.Query(query, appUserID, excludePlaylistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query library features for %s: %w", appUserID, err)
	}
	return scanSongFeatures(rows)
}

// GenreCounts returns the playlist's most common genres, counted per
// credited song, ties broken alphabetically.
func (r *AnalyticsRepository) GenreCounts(playlistID string, limit int) ([]GenreCount, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT g.genre, COUNT(*) AS n
		FROM artist_genres g
		JOIN song_artists sa ON sa.artist_id = g.artist_id
		JOIN playlist_songs ps ON ps.song_id = sa.song_id
		WHERE ps.playlist_id = ?
		GROUP BY g.genre
		ORDER BY n DESC, g.genre ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, playlistID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre counts for %s: %w", playlistID, err)
	}
	defer rows.Close()

	var counts []GenreCount
	for rows.Next() {
		var c GenreCount
		if err := rows.Scan(&c.Genre, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan genre count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SongHistory lists the user's most recently added songs across all of
// their playlists.
func (r *AnalyticsRepository) SongHistory(appUserID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT s.song_id, s.title, p.name, ps.added_date, ps.added_by
		FROM playlist_songs ps
		JOIN songs s ON s.song_id = ps.song_id
		JOIN playlists p ON p.playlist_id = ps.playlist_id
		WHERE p.app_user_id = ?
		ORDER BY ps.added_date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, appUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query song history for %s: %w", appUserID, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var added sql.NullTime
		if err := rows.Scan(&e.SongID, &e.Title, &e.PlaylistName, &added, &e.AddedBy); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.AddedAt = timePtr(added)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RandomSong picks one song of the playlist at random for the trivia
// game. Empty playlists return [shared.ErrSongNotFound].
func (r *AnalyticsRepository) RandomSong(playlistID string) (*TriviaSong, error) {
	query := `
		SELECT s.song_id, s.title, GROUP_CONCAT(DISTINCT a.name), s.release_date
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.song_id
		LEFT JOIN song_artists sa ON sa.song_id = s.song_id
		LEFT JOIN artists a ON a.artist_id = sa.artist_id
		WHERE ps.playlist_id = ?
		GROUP BY s.song_id
		ORDER BY RANDOM()
		LIMIT 1
	`

	var song TriviaSong
	var artists sql.NullString
	var released sql.NullTime
	err := r.db.QueryRow(query, playlistID).Scan(&song.SongID, &song.Title, &artists, &released)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist %s has no songs", shared.ErrSongNotFound, playlistID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick song from %s: %w", playlistID, err)
	}
	song.Artists = artists.String
	song.ReleaseDate = timePtr(released)
	return &song, nil
}
