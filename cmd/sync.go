package main

import (
	"context"
	"fmt"
	"time"

	"github.com/twsweeney/tunescope/internal/repositories"
	"github.com/twsweeney/tunescope/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync runs a full incremental sync pass against the provider, printing
// progress as phases complete.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	quiet := cmd.Bool("quiet")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	engine, err := r.syncEngine()
	if err != nil {
		return err
	}

	appUserID, err := r.appUserID(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("starting sync", "user", appUserID)

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if quiet {
				continue
			}
			if update.ETA > 0 {
				r.writePlain("[%d/%d] %s (about %s left)\n", update.Step, update.Total, update.Message, update.ETA.Round(time.Second))
			} else {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progress, appUserID)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlainln("✓ Sync complete in %s", result.Duration.Round(time.Millisecond))
	r.writePlain("Playlists: %d seen, %d synced, %d empty skipped\n\n", result.PlaylistsSeen, result.PlaylistsSynced, result.PlaylistsSkipped)
	writeCounter(r, "Playlists", result.Playlists)
	writeCounter(r, "Songs", result.Songs)
	writeCounter(r, "Memberships", result.Memberships)
	writeCounter(r, "Artists", result.Artists)
	writeCounter(r, "Credits", result.Credits)
	writeCounter(r, "Features", result.Features)
	writeCounter(r, "Artist details", result.ArtistDetails)

	return nil
}

func writeCounter(r *Runner, label string, batch repositories.BatchResult) {
	r.writePlain("%-15s %d new, %d already known, %d skipped\n", label, batch.Applied, batch.Conflicts, batch.Skipped)
}
