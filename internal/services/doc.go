// Package services defines the [Service] interface for music streaming providers and implements it for Spotify.
//
// # Service Interface
//
// The sync pipeline talks to the provider exclusively through [Service], so tests
// can swap in a scripted double without touching HTTP.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
// The [oauth2.Config] client refreshes expired tokens using the refresh token.
//
// All reads go through a single request path that paces calls with a
// [rate.Limiter] and transparently retries 429 responses after the
// provider-supplied Retry-After delay. Paginated endpoints are drained
// page by page until the provider reports no next page.
//
// Batch lookups are bounded by the provider: at most [MaxAudioFeatureIDs]
// song ids per audio-features call and [MaxArtistIDs] artist ids per
// artists call. The provider returns null entries for items it cannot
// resolve; those are preserved as nil so callers can account for them.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Service for OAuth providers.
// [SpotifyService] implements this for the server-side callback flow used by the CLI.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed or non-2xx status
//   - [shared.ErrInvalidArgument] : batch size over the provider limit
package services
