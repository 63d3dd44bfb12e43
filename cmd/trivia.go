package main

import (
	"context"
	"fmt"

	"github.com/twsweeney/tunescope/internal/shared"
	"github.com/urfave/cli/v3"
)

// Trivia picks a random song from a playlist and prints hints one at a
// time: release year, then artists, with the title held back unless
// --reveal is set.
func (r *Runner) Trivia(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	reveal := cmd.Bool("reveal")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	song, err := store.Analytics.RandomSong(playlistID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(song, pretty)
	}

	r.writePlain("Guess the song!\n\n")
	if song.ReleaseDate != nil {
		r.writePlain("Hint 1: released in %d\n", song.ReleaseDate.Year())
	} else {
		r.writePlain("Hint 1: release date unknown\n")
	}
	if song.Artists != "" {
		r.writePlain("Hint 2: by %s\n", song.Artists)
	} else {
		r.writePlain("Hint 2: artist unknown\n")
	}

	if reveal {
		r.writePlain("\nIt was: %s\n", song.Title)
	} else {
		r.writePlain("\nRun with --reveal to see the answer (id %s)\n", song.SongID)
	}

	return nil
}
