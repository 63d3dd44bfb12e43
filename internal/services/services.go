package services

import (
	"context"

	"golang.org/x/oauth2"
)

// Service defines the typed fetch operations the sync pipeline needs from
// the upstream provider. Implementations own pagination and transparent
// rate-limit retry; callers see fully drained result sets.
type Service interface {
	// Authenticate performs OAuth authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*User, error)

	// UserPlaylists retrieves all playlists for the authenticated user,
	// following pagination until the provider reports no next page.
	UserPlaylists(ctx context.Context) ([]Playlist, error)

	// PlaylistItems retrieves all items of a playlist, following pagination.
	// An item's Track may be nil when the underlying track was removed
	// from the catalog.
	PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error)

	// AudioFeatures retrieves audio features for up to 100 song ids.
	// Entries may be nil when the provider has no features for a song.
	AudioFeatures(ctx context.Context, songIDs []string) ([]*AudioFeatures, error)

	// Artists retrieves genre and popularity metadata for up to 50 artist ids.
	// Entries may be nil when the provider has no data for an artist.
	Artists(ctx context.Context, artistIDs []string) ([]*ArtistDetail, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by services that authenticate through an
// OAuth2 authorization-code flow driven by the CLI.
type OAuthService interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
}

// User represents the authenticated user's profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Owner identifies the user that owns a playlist or added a track.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist represents a playlist as returned by the provider's listing endpoint.
type Playlist struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Owner         Owner          `json:"owner"`
	Collaborative bool           `json:"collaborative"`
	Tracks        PlaylistTracks `json:"tracks"`
}

// PlaylistTracks carries the track count reported alongside a playlist.
type PlaylistTracks struct {
	Total int `json:"total"`
}

// Album represents the album nested under a track.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"` // YYYY-MM-DD, YYYY-MM or YYYY
}

// TrackArtist is the abbreviated artist object credited on a track.
type TrackArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a track nested in a playlist item.
type Track struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Album      Album         `json:"album"`
	DurationMS int           `json:"duration_ms"`
	Popularity float64       `json:"popularity"`
	Artists    []TrackArtist `json:"artists"`
}

// PlaylistItem represents one entry of a playlist. Track is nil when the
// provider has tombstoned the underlying track.
type PlaylistItem struct {
	AddedAt string `json:"added_at"` // RFC3339 timestamp
	AddedBy Owner  `json:"added_by"`
	Track   *Track `json:"track"`
}

// AudioFeatures holds the nine numeric audio descriptors of a song.
type AudioFeatures struct {
	ID               string  `json:"id"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
}

// ArtistDetail is the full artist object with genre tags and popularity.
type ArtistDetail struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity float64  `json:"popularity"`
}
