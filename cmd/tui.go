package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/twsweeney/tunescope/internal/shared"
	"github.com/twsweeney/tunescope/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing playlists,
// reading feature reports, and running syncs.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tunescope-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.syncEngine()
	if err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	appUserID, err := r.appUserID(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, store, engine, appUserID)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
