package main

import (
	"context"
	"errors"
	"os"

	"github.com/twsweeney/tunescope/internal/services"
	"github.com/twsweeney/tunescope/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config, using defaults %v", err)
		}
	}

	var spotifyService services.Service
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(), config.Sync.RateLimit); err == nil {
			if config.Credentials.Spotify.AccessToken != "" {
				if err := svc.Authenticate(context.Background(), config.Credentials.Spotify.Map()); err != nil {
					logger.Warnf("failed to install stored token %v", err)
				}
			}
			spotifyService = svc
		} else {
			logger.Warnf("failed to create Spotify service %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Service:    spotifyService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "tunescope",
		Usage:    "Incremental Spotify playlist sync and local listening analytics",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrTokenExpired) {
			logger.Fatalf("access token expired, run tunescope auth: %v", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
