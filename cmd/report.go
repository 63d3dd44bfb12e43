package main

import (
	"context"
	"fmt"
	"os"

	"github.com/twsweeney/tunescope/internal/formatter"
	"github.com/twsweeney/tunescope/internal/shared"
	"github.com/urfave/cli/v3"
)

// ReportPlaylists lists the synced playlists with song counts and window bounds.
func (r *Runner) ReportPlaylists(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	store, err := r.openStore()
	if err != nil {
		return err
	}

	appUserID, err := r.appUserID(ctx)
	if err != nil {
		return err
	}

	summaries, err := store.Analytics.PlaylistsForUser(appUserID)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if useJSON {
		return r.writeJSON(summaries, pretty)
	}

	if len(summaries) == 0 {
		r.writePlain("No playlists synced yet. Run: tunescope sync\n")
		return nil
	}

	_, err = r.output.Write(formatter.PlaylistsText(summaries))
	return err
}

// ReportFeatures compares a playlist's audio feature medians against the
// rest of the user's library.
func (r *Runner) ReportFeatures(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	markdown := cmd.Bool("markdown")
	csvPath := cmd.String("csv")

	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	appUserID, err := r.appUserID(ctx)
	if err != nil {
		return err
	}

	summary, err := store.Analytics.PlaylistByID(playlistID)
	if err != nil {
		return err
	}

	playlist, err := store.Analytics.PlaylistFeatures(playlistID)
	if err != nil {
		return fmt.Errorf("failed to load playlist features: %w", err)
	}

	library, err := store.Analytics.LibraryFeatures(appUserID, playlistID)
	if err != nil {
		return fmt.Errorf("failed to load library features: %w", err)
	}

	if csvPath != "" {
		data, err := formatter.SongsToCSV(playlist)
		if err != nil {
			return fmt.Errorf("failed to build CSV: %w", err)
		}
		if err := os.WriteFile(csvPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		r.writePlain("✓ Exported %d songs to %s\n", len(playlist), csvPath)
		return nil
	}

	stats := formatter.CompareFeatures(playlist, library)

	if useJSON {
		return r.writeJSON(stats, pretty)
	}

	var report []byte
	if markdown {
		report = formatter.FeatureReportMarkdown(summary.Name, stats)
	} else {
		report = formatter.FeatureReportText(summary.Name, stats)
	}
	_, err = r.output.Write(report)
	return err
}

// ReportGenres prints the most common genres of a playlist's credited artists.
func (r *Runner) ReportGenres(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	summary, err := store.Analytics.PlaylistByID(playlistID)
	if err != nil {
		return err
	}

	counts, err := store.Analytics.GenreCounts(playlistID, limit)
	if err != nil {
		return fmt.Errorf("failed to count genres: %w", err)
	}

	if useJSON {
		return r.writeJSON(counts, pretty)
	}

	_, err = r.output.Write(formatter.GenresText(summary.Name, counts))
	return err
}

// ReportHistory prints the user's membership rows ordered by added date.
func (r *Runner) ReportHistory(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	store, err := r.openStore()
	if err != nil {
		return err
	}

	appUserID, err := r.appUserID(ctx)
	if err != nil {
		return err
	}

	entries, err := store.Analytics.SongHistory(appUserID, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	_, err = r.output.Write(formatter.HistoryText(entries))
	return err
}
