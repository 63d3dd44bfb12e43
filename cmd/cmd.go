// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// setupCommand initializes the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize the config file and database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// authCommand runs the OAuth2 authorization flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// syncCommand runs a full incremental sync pass.
func syncCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		configFlag(),
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress per-playlist progress output",
		},
	}
	return &cli.Command{
		Name:   "sync",
		Usage:  "Sync playlists, songs, features, and artists into the local database",
		Flags:  append(flags, jsonFlags()...),
		Action: r.Sync,
	}
}

// reportCommand groups the local analytics reports.
func reportCommand(r *Runner) *cli.Command {
	idFlag := &cli.StringFlag{
		Name:  "id",
		Usage: "Playlist ID to report on",
	}
	return &cli.Command{
		Name:    "report",
		Aliases: []string{"rep"},
		Usage:   "Offline reports over synced data",
		Commands: []*cli.Command{
			{
				Name:   "playlists",
				Usage:  "List synced playlists with song counts",
				Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action: r.ReportPlaylists,
			},
			{
				Name:  "features",
				Usage: "Compare a playlist's audio feature medians against the rest of the library",
				Flags: append([]cli.Flag{
					configFlag(),
					idFlag,
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Render the report as a Markdown table",
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Export per-song features as CSV to the given path",
					},
				}, jsonFlags()...),
				Action: r.ReportFeatures,
			},
			{
				Name:  "genres",
				Usage: "Count genres across a playlist's credited artists",
				Flags: append([]cli.Flag{
					configFlag(),
					idFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of genres to show",
						Value: 10,
					},
				}, jsonFlags()...),
				Action: r.ReportGenres,
			},
			{
				Name:  "history",
				Usage: "Show recently added songs across all playlists",
				Flags: append([]cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to show",
						Value: 50,
					},
				}, jsonFlags()...),
				Action: r.ReportHistory,
			},
		},
	}
}

// triviaCommand plays a guess-the-song round from a playlist.
func triviaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trivia",
		Usage: "Pick a random synced song and print hints",
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "id",
				Usage: "Playlist ID to draw from",
			},
			&cli.BoolFlag{
				Name:  "reveal",
				Usage: "Print the answer immediately",
			},
		}, jsonFlags()...),
		Action: r.Trivia,
	}
}

// privacyCommand removes the user's synced data.
func privacyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "privacy",
		Usage: "Data removal commands",
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Delete all synced playlists and history for the authenticated user",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm deletion",
					},
				},
				Action: r.PrivacyDelete,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse playlists and run syncs interactively",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}
