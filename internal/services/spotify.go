package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twsweeney/tunescope/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// page size for the playlist and playlist-items endpoints
	pageLimit = 50

	// upstream batch limits for the secondary lookup endpoints
	MaxAudioFeatureIDs = 100
	MaxArtistIDs       = 50

	defaultRetryAfter = 1 * time.Second
)

// page is the provider's pagination envelope. Items are decoded lazily so
// one envelope type serves both playlist and playlist-item pages.
type page struct {
	Items  []json.RawMessage `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Next   *string           `json:"next"`
}

// SpotifyService implements the Service interface for Spotify API interactions.
// Uses [oauth2] for authentication and a [rate.Limiter] to pace requests;
// 429 responses are retried transparently after the provider-supplied delay.
type SpotifyService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	limiter     *rate.Limiter
	credentials map[string]string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2
// credentials. requestsPerSecond bounds the client-side request rate;
// values <= 0 fall back to 10 rps.
func NewSpotifyService(credentials map[string]string, requestsPerSecond float64) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:3000/callback"
	}

	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-read-private",
			"playlist-read-collaborative",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		credentials: credentials,
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	return fmt.Errorf("%w: access_token or auth_code required", shared.ErrMissingCredentials)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback server.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// retryAfter reads the provider-supplied backoff from a 429 response.
func retryAfter(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the JSON response into result.
//
// 429 responses sleep for the provider-specified backoff and retry the
// same request; they are never surfaced to the caller. 401 maps to
// [shared.ErrTokenExpired] so the CLI can trigger reauthorization; any
// other non-2xx status is fatal.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			delay := retryAfter(resp.Header)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return shared.ErrTokenExpired
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return fmt.Errorf("%w: status %d for %s", shared.ErrAPIRequest, resp.StatusCode, endpoint)
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				resp.Body.Close()
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		resp.Body.Close()
		return nil
	}
}

// getPages drains a paginated endpoint, decoding every item on every page
// into elements of T. Pagination continues while the provider reports a
// next page.
func getPages[T any](ctx context.Context, s *SpotifyService, endpoint string) ([]T, error) {
	var all []T
	offset := 0

	for {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		paged := fmt.Sprintf("%s%slimit=%d&offset=%d", endpoint, sep, pageLimit, offset)

		var p page
		if err := s.doRequest(ctx, paged, &p); err != nil {
			return nil, err
		}

		for _, raw := range p.Items {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to decode page item: %w", err)
			}
			all = append(all, item)
		}

		if p.Next == nil {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves all of the current user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]Playlist, error) {
	return getPages[Playlist](ctx, s, "/me/playlists")
}

// PlaylistItems retrieves all items of a playlist. Items whose underlying
// track has been removed from the catalog come back with a nil Track.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id required", shared.ErrMissingArgument)
	}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return getPages[PlaylistItem](ctx, s, endpoint)
}

// AudioFeatures retrieves audio features for up to [MaxAudioFeatureIDs]
// songs. The provider returns null in place of a feature object for songs
// it cannot analyze; those entries are preserved as nil.
func (s *SpotifyService) AudioFeatures(ctx context.Context, songIDs []string) ([]*AudioFeatures, error) {
	if len(songIDs) == 0 {
		return nil, fmt.Errorf("%w: no song ids provided", shared.ErrMissingArgument)
	}
	if len(songIDs) > MaxAudioFeatureIDs {
		return nil, fmt.Errorf("%w: at most %d song ids per request", shared.ErrInvalidArgument, MaxAudioFeatureIDs)
	}

	endpoint := "/audio-features?ids=" + url.QueryEscape(strings.Join(songIDs, ","))

	var response struct {
		AudioFeatures []*AudioFeatures `json:"audio_features"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.AudioFeatures, nil
}

// Artists retrieves genre and popularity metadata for up to [MaxArtistIDs]
// artists. Unknown artists come back as nil entries.
func (s *SpotifyService) Artists(ctx context.Context, artistIDs []string) ([]*ArtistDetail, error) {
	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("%w: no artist ids provided", shared.ErrMissingArgument)
	}
	if len(artistIDs) > MaxArtistIDs {
		return nil, fmt.Errorf("%w: at most %d artist ids per request", shared.ErrInvalidArgument, MaxArtistIDs)
	}

	endpoint := "/artists?ids=" + url.QueryEscape(strings.Join(artistIDs, ","))

	var response struct {
		Artists []*ArtistDetail `json:"artists"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Artists, nil
}
