package extract

import (
	"testing"
	"time"

	"github.com/twsweeney/tunescope/internal/services"
)

func item(added, songID string, artists ...services.TrackArtist) services.PlaylistItem {
	return services.PlaylistItem{
		AddedAt: added,
		AddedBy: services.Owner{ID: "adder"},
		Track: &services.Track{
			ID:         songID,
			Name:       "Song " + songID,
			Album:      services.Album{ID: "al1", Name: "Album", ReleaseDate: "2020-06-15"},
			DurationMS: 180000,
			Popularity: 42,
			Artists:    artists,
		},
	}
}

func tombstone(added string) services.PlaylistItem {
	return services.PlaylistItem{AddedAt: added, AddedBy: services.Owner{ID: "adder"}}
}

func TestNormalizeReleaseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		isNil bool
	}{
		{"Full Date", "2023-05-17", "2023-05-17", false},
		{"Month Precision", "2023-05", "2023-05-01", false},
		{"Year Precision", "2023", "2023-01-01", false},
		{"Empty", "", "", true},
		{"Garbage", "not-a-date", "", true},
		{"Partial Garbage", "2023-13", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeReleaseDate(tc.input)
			if tc.isNil {
				if got != nil {
					t.Errorf("expected nil for %q, got %v", tc.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected a date for %q, got nil", tc.input)
			}
			if f := got.Format("2006-01-02"); f != tc.want {
				t.Errorf("expected %s, got %s", tc.want, f)
			}
		})
	}
}

func TestPlaylists(t *testing.T) {
	in := []services.Playlist{
		{ID: "p1", Name: "Mix", Owner: services.Owner{ID: "owner1"}, Collaborative: true},
		{ID: "p2", Name: "Other", Owner: services.Owner{ID: "owner2"}},
	}

	records := Playlists(in, "user1")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PlaylistID != "p1" || !records[0].IsCollaborative || records[0].AppUserID != "user1" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].OwnerID != "owner2" || records[1].IsCollaborative {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestSongs(t *testing.T) {
	items := []services.PlaylistItem{
		item("2023-01-15T10:00:00Z", "s1"),
		tombstone("2023-01-16T10:00:00Z"),
	}

	records := Songs(items)
	if len(records) != 2 {
		t.Fatalf("expected a record per item, got %d", len(records))
	}
	if records[0].SongID != "s1" || records[0].DurationMS != 180000 {
		t.Errorf("unexpected song record: %+v", records[0])
	}
	if records[0].ReleaseDate == nil || records[0].ReleaseDate.Year() != 2020 {
		t.Errorf("expected normalized release date, got %v", records[0].ReleaseDate)
	}
	if records[1].SongID != "" {
		t.Errorf("expected tombstone to keep empty song id, got %q", records[1].SongID)
	}
}

func TestMemberships(t *testing.T) {
	items := []services.PlaylistItem{
		item("2023-01-15T10:00:00Z", "s1"),
		{AddedAt: "bad-timestamp", Track: &services.Track{ID: "s2"}},
		tombstone("2023-01-16T10:00:00Z"),
	}

	records := Memberships("p1", items)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].PlaylistID != "p1" || records[0].SongID != "s1" || records[0].AddedBy != "adder" {
		t.Errorf("unexpected membership: %+v", records[0])
	}
	if records[0].AddedAt == nil {
		t.Error("expected parsed added-at timestamp")
	}
	if records[1].AddedAt != nil {
		t.Errorf("expected nil added-at for malformed timestamp, got %v", records[1].AddedAt)
	}
	if records[2].SongID != "" {
		t.Error("expected tombstone membership to keep empty song id")
	}
}

func TestAddedDateRange(t *testing.T) {
	t.Run("Min And Max", func(t *testing.T) {
		items := []services.PlaylistItem{
			item("2023-03-01T00:00:00Z", "s1"),
			item("2022-01-01T00:00:00Z", "s2"),
			item("2024-07-04T12:30:00Z", "s3"),
			{AddedAt: "garbage", Track: &services.Track{ID: "s4"}},
		}

		earliest, latest := AddedDateRange(items)
		if earliest == nil || latest == nil {
			t.Fatal("expected both bounds to be set")
		}
		if earliest.Year() != 2022 {
			t.Errorf("expected earliest in 2022, got %v", earliest)
		}
		if !latest.Equal(time.Date(2024, 7, 4, 12, 30, 0, 0, time.UTC)) {
			t.Errorf("unexpected latest: %v", latest)
		}
	})

	t.Run("No Parseable Dates", func(t *testing.T) {
		earliest, latest := AddedDateRange([]services.PlaylistItem{{AddedAt: ""}})
		if earliest != nil || latest != nil {
			t.Errorf("expected nil bounds, got %v and %v", earliest, latest)
		}
	})
}

func TestArtistCredits(t *testing.T) {
	a1 := services.TrackArtist{ID: "ar1", Name: "One"}
	a2 := services.TrackArtist{ID: "ar2", Name: "Two"}
	items := []services.PlaylistItem{
		item("2023-01-15T10:00:00Z", "s1", a1, a2),
		item("2023-01-15T10:00:00Z", "s1", a1), // duplicate entry for the same song
		item("2023-01-16T10:00:00Z", "s2", a1),
		tombstone("2023-01-17T10:00:00Z"),
	}

	credits := ArtistCredits(items)
	if len(credits) != 3 {
		t.Fatalf("expected 3 unique credits, got %d: %+v", len(credits), credits)
	}
	if credits[0].SongID != "s1" || credits[0].ArtistID != "ar1" {
		t.Errorf("unexpected first credit: %+v", credits[0])
	}
	if credits[2].SongID != "s2" || credits[2].ArtistID != "ar1" {
		t.Errorf("expected ar1 credited again on s2, got %+v", credits[2])
	}
}

func TestAudioFeatureRecords(t *testing.T) {
	in := []*services.AudioFeatures{
		{ID: "s1", Danceability: 0.7, Tempo: 128},
		nil,
		{ID: "s2", Energy: 0.3},
	}

	records := AudioFeatureRecords(in)
	if len(records) != 2 {
		t.Fatalf("expected nil entries dropped, got %d records", len(records))
	}
	if records[0].SongID != "s1" || records[0].Tempo != 128 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].SongID != "s2" || records[1].Energy != 0.3 {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestArtistDetailRecords(t *testing.T) {
	in := []*services.ArtistDetail{
		{ID: "ar1", Name: "One", Genres: []string{"ambient"}, Popularity: 55},
		nil,
	}

	records := ArtistDetailRecords(in)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ArtistID != "ar1" || len(records[0].Genres) != 1 || records[0].Popularity != 55 {
		t.Errorf("unexpected record: %+v", records[0])
	}
}
