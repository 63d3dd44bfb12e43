package shared

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Sync.FeatureBatchSize != 100 {
		t.Errorf("expected feature batch size 100, got %d", config.Sync.FeatureBatchSize)
	}
	if config.Sync.ArtistBatchSize != 50 {
		t.Errorf("expected artist batch size 50, got %d", config.Sync.ArtistBatchSize)
	}
	if config.Database.Path == "" {
		t.Error("expected default database path")
	}
	if config.Server.Port == 0 {
		t.Error("expected default server port")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config := DefaultConfig()
	config.Credentials.Spotify.ClientID = "client123"
	config.Database.Path = "analytics.db"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Credentials.Spotify.ClientID != "client123" {
		t.Errorf("expected client id 'client123', got %s", loaded.Credentials.Spotify.ClientID)
	}
	if loaded.Database.Path != "analytics.db" {
		t.Errorf("expected database path 'analytics.db', got %s", loaded.Database.Path)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSpotifyConfigTokens(t *testing.T) {
	t.Run("Update & Token", func(t *testing.T) {
		cfg := SpotifyConfig{}
		expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		}

		if err := cfg.Update(token); err != nil {
			t.Fatalf("failed to update config: %v", err)
		}

		restored := cfg.Token()
		if restored == nil {
			t.Fatal("expected restored token")
		}
		if restored.AccessToken != "access" || restored.RefreshToken != "refresh" {
			t.Errorf("unexpected token fields: %+v", restored)
		}
		if !restored.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, restored.Expiry)
		}
	})

	t.Run("Empty Token", func(t *testing.T) {
		cfg := SpotifyConfig{}
		if err := cfg.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if cfg.Token() != nil {
			t.Error("expected nil token when nothing stored")
		}
	})

	t.Run("Update Preserves Refresh Token", func(t *testing.T) {
		cfg := SpotifyConfig{RefreshToken: "keep-me"}
		if err := cfg.Update(&oauth2.Token{AccessToken: "fresh"}); err != nil {
			t.Fatalf("failed to update config: %v", err)
		}
		if cfg.RefreshToken != "keep-me" {
			t.Errorf("expected refresh token preserved, got %s", cfg.RefreshToken)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("created config should be loadable: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config file already exists")
	}
}
