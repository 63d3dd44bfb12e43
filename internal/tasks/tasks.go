package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/twsweeney/tunescope/internal/extract"
	"github.com/twsweeney/tunescope/internal/repositories"
	"github.com/twsweeney/tunescope/internal/services"
)

// SyncResult contains the counters of one full sync pass.
type SyncResult struct {
	PlaylistsSeen    int // playlists the provider reported
	PlaylistsSynced  int // playlists whose items were processed
	PlaylistsSkipped int // empty playlists skipped

	Playlists     repositories.BatchResult // playlist identity rows
	Songs         repositories.BatchResult // song identity rows
	Memberships   repositories.BatchResult // playlist membership rows
	Artists       repositories.BatchResult // artist identity rows
	Credits       repositories.BatchResult // song credit rows
	Features      repositories.BatchResult // audio feature merges
	ArtistDetails repositories.BatchResult // popularity/genre merges

	Duration time.Duration
}

// SyncEngine defines the sync operation the CLI and TUI drive.
type SyncEngine interface {
	// Run performs a full incremental sync for the app user, streaming
	// progress through the channel when one is provided.
	Run(ctx context.Context, progress chan<- ProgressUpdate, appUserID string) (*SyncResult, error)
}

// PlaylistSyncer implements SyncEngine against a streaming provider and
// the local store.
type PlaylistSyncer struct {
	service services.Service
	store   *repositories.Store
	logger  *log.Logger

	featureBatchSize int
	artistBatchSize  int
}

// NewPlaylistSyncer creates a syncer. Batch sizes are clamped to the
// provider's limits; zero or negative values take the limits themselves.
func NewPlaylistSyncer(service services.Service, store *repositories.Store, logger *log.Logger, featureBatchSize, artistBatchSize int) *PlaylistSyncer {
	if featureBatchSize <= 0 || featureBatchSize > services.MaxAudioFeatureIDs {
		featureBatchSize = services.MaxAudioFeatureIDs
	}
	if artistBatchSize <= 0 || artistBatchSize > services.MaxArtistIDs {
		artistBatchSize = services.MaxArtistIDs
	}
	return &PlaylistSyncer{
		service:          service,
		store:            store,
		logger:           logger,
		featureBatchSize: featureBatchSize,
		artistBatchSize:  artistBatchSize,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (s *PlaylistSyncer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a full incremental sync pass for appUserID.
func (s *PlaylistSyncer) Run(ctx context.Context, progress chan<- ProgressUpdate, appUserID string) (*SyncResult, error) {
	started := time.Now()
	result := &SyncResult{}

	s.sendProgress(progress, fetchPlaylistsUpdate())
	playlists, err := s.service.UserPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	result.PlaylistsSeen = len(playlists)
	s.logger.Info("fetched playlists", "count", len(playlists))

	batch, err := s.store.Playlists.InsertBatch(extract.Playlists(playlists, appUserID))
	if err != nil {
		return nil, err
	}
	result.Playlists.Merge(batch)

	tracker := newETATracker(len(playlists))
	for i, playlist := range playlists {
		if playlist.Tracks.Total == 0 {
			result.PlaylistsSkipped++
			s.logger.Debug("skipping empty playlist", "playlist", playlist.Name)
			s.sendProgress(progress, skipPlaylistUpdate(tracker, i+1, playlist.Name))
			continue
		}

		if err := s.syncPlaylist(ctx, playlist, result); err != nil {
			return nil, fmt.Errorf("failed to sync playlist %s: %w", playlist.ID, err)
		}
		result.PlaylistsSynced++
		s.sendProgress(progress, syncPlaylistUpdate(tracker, i+1, playlist.Name))
	}

	if err := s.fillArtistGaps(ctx, result); err != nil {
		return nil, err
	}
	s.sendProgress(progress, artistGapsUpdate(tracker, tracker.total))

	result.Duration = time.Since(started)
	s.logger.Info("sync complete",
		"playlists", result.PlaylistsSynced,
		"skipped", result.PlaylistsSkipped,
		"new_songs", result.Songs.Applied,
		"duration", result.Duration)
	s.sendProgress(progress, doneUpdate(tracker, result))
	return result, nil
}

// syncPlaylist processes one playlist: songs, timestamp window,
// memberships, feature gaps, then artists and credits.
func (s *PlaylistSyncer) syncPlaylist(ctx context.Context, playlist services.Playlist, result *SyncResult) error {
	items, err := s.service.PlaylistItems(ctx, playlist.ID)
	if err != nil {
		return err
	}

	batch, err := s.store.Songs.InsertBatch(extract.Songs(items))
	if err != nil {
		return err
	}
	result.Songs.Merge(batch)

	// the window comes from the current batch's added dates and must be
	// merged before membership rows land
	earliest, latest := extract.AddedDateRange(items)
	if err := s.store.Playlists.MergeWindow(playlist.ID, earliest, latest); err != nil {
		return err
	}

	batch, err = s.store.Memberships.InsertBatch(extract.Memberships(playlist.ID, items))
	if err != nil {
		return err
	}
	result.Memberships.Merge(batch)

	if err := s.fillSongGaps(ctx, playlist.ID, result); err != nil {
		return err
	}

	credits := extract.ArtistCredits(items)
	batch, err = s.store.Artists.InsertBatch(credits)
	if err != nil {
		return err
	}
	result.Artists.Merge(batch)

	batch, err = s.store.Credits.InsertBatch(credits)
	if err != nil {
		return err
	}
	result.Credits.Merge(batch)

	s.logger.Debug("synced playlist", "playlist", playlist.Name, "items", len(items))
	return nil
}

// fillSongGaps fetches audio features for the playlist's songs that
// still miss descriptors, one provider-sized chunk at a time.
func (s *PlaylistSyncer) fillSongGaps(ctx context.Context, playlistID string, result *SyncResult) error {
	chunks, err := s.store.Songs.FeatureGaps(playlistID, s.featureBatchSize)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		features, err := s.service.AudioFeatures(ctx, chunk)
		if err != nil {
			return err
		}
		batch, err := s.store.Songs.MergeFeatures(extract.AudioFeatureRecords(features))
		if err != nil {
			return err
		}
		result.Features.Merge(batch)
	}
	return nil
}

// fillArtistGaps enriches all stored artists still missing popularity or
// genres, across playlists, one provider-sized chunk at a time.
func (s *PlaylistSyncer) fillArtistGaps(ctx context.Context, result *SyncResult) error {
	chunks, err := s.store.Artists.Gaps(s.artistBatchSize)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		details, err := s.service.Artists(ctx, chunk)
		if err != nil {
			return err
		}
		batch, err := s.store.Artists.MergeDetails(extract.ArtistDetailRecords(details))
		if err != nil {
			return err
		}
		result.ArtistDetails.Merge(batch)
	}
	return nil
}
