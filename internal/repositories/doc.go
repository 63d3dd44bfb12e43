// Package repositories implements SQLite persistence for the sync pipeline's six entities.
//
// Each repository takes a *sql.DB and speaks raw SQL. Writes are
// row-at-a-time: one statement per row, no multi-row transactions, so a
// conflicting row never poisons the rows around it.
//
// Key Implementations:
//   - [PlaylistRepository] : playlist identity rows plus the timestamp window merge
//   - [SongRepository] : song identity rows, audio feature merges, per-playlist feature gaps
//   - [ArtistRepository] : artist rows, popularity/genre merges, global artist gaps
//   - [PlaylistSongRepository] : playlist membership junction rows
//   - [SongArtistRepository] : song credit junction rows
//   - [AnalyticsRepository] : read-only queries backing reports, history, and trivia
//
// Insert-or-skip primitives report a tagged [Outcome]: unique and
// primary-key violations are recovered locally and surfaced as
// [OutcomeConflict], never as errors. Batch methods aggregate outcomes
// into a [BatchResult] alongside the rows skipped pre-emptively for
// missing identity (tombstoned tracks).
package repositories
