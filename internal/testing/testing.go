// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"

	"github.com/twsweeney/tunescope/internal/services"
)

// MockService is a configurable test double for [services.Service].
// Zero value returns empty results; populate fields to script responses
// and set the error fields to force failures.
type MockService struct {
	User      *services.User
	Playlists []services.Playlist
	Items     map[string][]services.PlaylistItem
	Features  map[string]*services.AudioFeatures
	Details   map[string]*services.ArtistDetail

	PlaylistsErr error
	ItemsErr     error
	FeaturesErr  error
	ArtistsErr   error

	// FeatureCalls and ArtistCalls record the id batches requested.
	FeatureCalls [][]string
	ArtistCalls  [][]string
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*services.User, error) {
	if m.User == nil {
		return &services.User{ID: "mock_user"}, nil
	}
	return m.User, nil
}

func (m *MockService) UserPlaylists(ctx context.Context) ([]services.Playlist, error) {
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockService) PlaylistItems(ctx context.Context, playlistID string) ([]services.PlaylistItem, error) {
	if m.ItemsErr != nil {
		return nil, m.ItemsErr
	}
	return m.Items[playlistID], nil
}

func (m *MockService) AudioFeatures(ctx context.Context, songIDs []string) ([]*services.AudioFeatures, error) {
	if m.FeaturesErr != nil {
		return nil, m.FeaturesErr
	}
	if len(songIDs) > services.MaxAudioFeatureIDs {
		return nil, fmt.Errorf("batch over provider limit: %d", len(songIDs))
	}
	m.FeatureCalls = append(m.FeatureCalls, songIDs)

	// unknown ids come back as nil entries, like the provider
	result := make([]*services.AudioFeatures, len(songIDs))
	for i, id := range songIDs {
		result[i] = m.Features[id]
	}
	return result, nil
}

func (m *MockService) Artists(ctx context.Context, artistIDs []string) ([]*services.ArtistDetail, error) {
	if m.ArtistsErr != nil {
		return nil, m.ArtistsErr
	}
	if len(artistIDs) > services.MaxArtistIDs {
		return nil, fmt.Errorf("batch over provider limit: %d", len(artistIDs))
	}
	m.ArtistCalls = append(m.ArtistCalls, artistIDs)

	result := make([]*services.ArtistDetail, len(artistIDs))
	for i, id := range artistIDs {
		result[i] = m.Details[id]
	}
	return result, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
