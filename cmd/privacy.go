package main

import (
	"context"
	"fmt"

	"github.com/twsweeney/tunescope/internal/shared"
	"github.com/urfave/cli/v3"
)

// PrivacyDelete removes all playlists, memberships, and history rows for
// the app user. Songs and artists stay since they carry no user data.
func (r *Runner) PrivacyDelete(ctx context.Context, cmd *cli.Command) error {
	confirmed := cmd.Bool("yes")

	if !confirmed {
		return fmt.Errorf("%w: pass --yes to confirm deletion of all synced data", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	appUserID, err := r.appUserID(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("deleting user data", "user", appUserID)

	deleted, err := store.Playlists.DeleteForUser(appUserID)
	if err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}

	r.writePlain("✓ Deleted %d playlists and their membership history for %s\n", deleted, appUserID)
	return nil
}
