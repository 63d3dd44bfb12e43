// Package tasks orchestrates the incremental sync pass from the streaming provider into the local store.
//
// # Core Operation
//
// The [SyncEngine] interface defines one operation:
//
//	[SyncEngine.Run] : full incremental sync for one app user
//	  - Fetches all playlists and writes their identity rows
//	  - Per playlist: fetches items, writes songs and memberships, merges
//	    the playlist's timestamp window from the batch's added dates
//	  - Fills per-playlist audio feature gaps in provider-sized chunks
//	  - Fills global artist enrichment gaps (popularity + genres) last
//
// Empty playlists are skipped. Rows already stored surface as conflicts
// and leave stored data untouched, so re-running a pass is safe; an
// interrupted pass leaves its writes behind and the next pass resumes
// through the gap queries.
//
// Rate limiting and 429 retries live inside the service client and are
// invisible here. Any other upstream error aborts the pass.
//
// # Progress Reporting
//
// All phases report through a non-blocking channel of [ProgressUpdate]
// values carrying step counts, fraction complete, and a remaining-time
// estimate projected from the elapsed time of the pass. Updates use
// select with default so a slow consumer never stalls the sync.
//
// # Implementation
//
// [PlaylistSyncer] implements [SyncEngine] with dependencies on:
//   - [services.Service] : the streaming provider client
//   - [repositories.Store] : the relational store being synced into
package tasks
