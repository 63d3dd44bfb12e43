// Package extract converts provider API payloads into the flat, typed
// records the repositories persist. Conversion is pure: no I/O, no
// database handles, so every rule here is unit-testable in isolation.
package extract

import (
	"time"

	"github.com/twsweeney/tunescope/internal/services"
)

// PlaylistRecord is a playlist row keyed by the provider's playlist id
// and scoped to the app user the sync runs for.
type PlaylistRecord struct {
	PlaylistID      string
	Name            string
	OwnerID         string
	IsCollaborative bool
	AppUserID       string
}

// SongRecord is a song row. SongID is empty for tombstoned playlist
// entries whose underlying track the provider has removed; the
// repositories skip those rows.
type SongRecord struct {
	SongID      string
	Title       string
	AlbumName   string
	AlbumID     string
	DurationMS  int
	ReleaseDate *time.Time
	Popularity  float64
}

// MembershipRecord links a song to a playlist with provenance of who
// added it and when.
type MembershipRecord struct {
	PlaylistID string
	SongID     string
	AddedAt    *time.Time
	AddedBy    string
}

// ArtistCreditRecord is one artist credited on one song. The same
// artist appears once per song it is credited on.
type ArtistCreditRecord struct {
	ArtistID string
	Name     string
	SongID   string
}

// FeatureRecord carries the nine audio descriptors for one song.
type FeatureRecord struct {
	SongID           string
	Acousticness     float64
	Danceability     float64
	Energy           float64
	Instrumentalness float64
	Liveness         float64
	Loudness         float64
	Speechiness      float64
	Tempo            float64
	Valence          float64
}

// ArtistDetailRecord carries the enrichment data for one artist.
type ArtistDetailRecord struct {
	ArtistID   string
	Name       string
	Popularity float64
	Genres     []string
}

// NormalizeReleaseDate parses the provider's release date, which comes
// in day, month, or year granularity. Partial dates snap to the first
// day of their period. Anything else, including empty input, yields nil.
func NormalizeReleaseDate(s string) *time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseAddedAt parses the RFC3339 timestamp the provider attaches to
// playlist entries. Malformed or empty timestamps yield nil.
func parseAddedAt(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// Playlists converts the provider's playlist listing into rows scoped
// to appUserID. Timestamps are left unset; they are derived from
// membership dates once the playlist's items are known.
func Playlists(playlists []services.Playlist, appUserID string) []PlaylistRecord {
	records := make([]PlaylistRecord, 0, len(playlists))
	for _, p := range playlists {
		records = append(records, PlaylistRecord{
			PlaylistID:      p.ID,
			Name:            p.Name,
			OwnerID:         p.Owner.ID,
			IsCollaborative: p.Collaborative,
			AppUserID:       appUserID,
		})
	}
	return records
}

// Songs converts playlist items into song rows. Tombstoned entries
// produce a record with an empty SongID so downstream counters can
// account for them.
func Songs(items []services.PlaylistItem) []SongRecord {
	records := make([]SongRecord, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			records = append(records, SongRecord{})
			continue
		}
		records = append(records, SongRecord{
			SongID:      item.Track.ID,
			Title:       item.Track.Name,
			AlbumName:   item.Track.Album.Name,
			AlbumID:     item.Track.Album.ID,
			DurationMS:  item.Track.DurationMS,
			ReleaseDate: NormalizeReleaseDate(item.Track.Album.ReleaseDate),
			Popularity:  item.Track.Popularity,
		})
	}
	return records
}

// Memberships converts playlist items into membership rows for
// playlistID. Tombstoned entries keep their empty SongID; the
// membership repository skips them.
func Memberships(playlistID string, items []services.PlaylistItem) []MembershipRecord {
	records := make([]MembershipRecord, 0, len(items))
	for _, item := range items {
		r := MembershipRecord{
			PlaylistID: playlistID,
			AddedAt:    parseAddedAt(item.AddedAt),
			AddedBy:    item.AddedBy.ID,
		}
		if item.Track != nil {
			r.SongID = item.Track.ID
		}
		records = append(records, r)
	}
	return records
}

// AddedDateRange returns the earliest and latest added-at timestamps
// across items, ignoring entries without a parseable timestamp. Both
// are nil when no entry carries one.
func AddedDateRange(items []services.PlaylistItem) (earliest, latest *time.Time) {
	for _, item := range items {
		t := parseAddedAt(item.AddedAt)
		if t == nil {
			continue
		}
		if earliest == nil || t.Before(*earliest) {
			earliest = t
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	return earliest, latest
}

// ArtistCredits fans playlist items out into per-song artist credits,
// deduplicated on (song, artist) while preserving encounter order.
// Tombstoned entries contribute nothing.
func ArtistCredits(items []services.PlaylistItem) []ArtistCreditRecord {
	seen := make(map[[2]string]struct{})
	var records []ArtistCreditRecord
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		for _, artist := range item.Track.Artists {
			key := [2]string{item.Track.ID, artist.ID}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, ArtistCreditRecord{
				ArtistID: artist.ID,
				Name:     artist.Name,
				SongID:   item.Track.ID,
			})
		}
	}
	return records
}

// AudioFeatureRecords converts a feature batch response, dropping the
// nil entries the provider returns for songs it cannot analyze.
func AudioFeatureRecords(features []*services.AudioFeatures) []FeatureRecord {
	var records []FeatureRecord
	for _, f := range features {
		if f == nil {
			continue
		}
		records = append(records, FeatureRecord{
			SongID:           f.ID,
			Acousticness:     f.Acousticness,
			Danceability:     f.Danceability,
			Energy:           f.Energy,
			Instrumentalness: f.Instrumentalness,
			Liveness:         f.Liveness,
			Loudness:         f.Loudness,
			Speechiness:      f.Speechiness,
			Tempo:            f.Tempo,
			Valence:          f.Valence,
		})
	}
	return records
}

// ArtistDetailRecords converts an artist batch response, dropping nil
// entries for unknown artists.
func ArtistDetailRecords(details []*services.ArtistDetail) []ArtistDetailRecord {
	var records []ArtistDetailRecord
	for _, d := range details {
		if d == nil {
			continue
		}
		records = append(records, ArtistDetailRecord{
			ArtistID:   d.ID,
			Name:       d.Name,
			Popularity: d.Popularity,
			Genres:     d.Genres,
		})
	}
	return records
}
