package repositories

import (
	"errors"
	"testing"

	"github.com/twsweeney/tunescope/internal/extract"
	"github.com/twsweeney/tunescope/internal/shared"
)

// seedLibrary builds a small two-playlist library for the read queries:
// p1 holds s1 (ar1: indie rock, shoegaze) and s2 (ar2: indie rock),
// p2 holds s3 with no credits.
func seedLibrary(t *testing.T, store *Store) {
	t.Helper()

	seedPlaylist(t, store, "p1", "u1")
	seedPlaylist(t, store, "p2", "u1")
	seedSongs(t, store, "p1", "s1", "s2")
	seedSongs(t, store, "p2", "s3")

	credits := []extract.ArtistCreditRecord{
		{ArtistID: "ar1", Name: "One", SongID: "s1"},
		{ArtistID: "ar2", Name: "Two", SongID: "s2"},
	}
	if _, err := store.Artists.InsertBatch(credits); err != nil {
		t.Fatalf("failed to seed artists: %v", err)
	}
	if _, err := store.Credits.InsertBatch(credits); err != nil {
		t.Fatalf("failed to seed credits: %v", err)
	}
	_, err := store.Artists.MergeDetails([]extract.ArtistDetailRecord{
		{ArtistID: "ar1", Name: "One", Popularity: 61, Genres: []string{"indie rock", "shoegaze"}},
		{ArtistID: "ar2", Name: "Two", Popularity: 40, Genres: []string{"indie rock"}},
	})
	if err != nil {
		t.Fatalf("failed to seed artist details: %v", err)
	}
}

func TestPlaylistsForUser(t *testing.T) {
	store := newTestStore(t)
	seedLibrary(t, store)

	if err := store.Playlists.MergeWindow("p1", mustTime(t, "2022-01-01T00:00:00Z"), mustTime(t, "2022-06-01T00:00:00Z")); err != nil {
		t.Fatalf("failed to set window: %v", err)
	}
	if err := store.Playlists.MergeWindow("p2", mustTime(t, "2023-01-01T00:00:00Z"), mustTime(t, "2023-06-01T00:00:00Z")); err != nil {
		t.Fatalf("failed to set window: %v", err)
	}

	summaries, err := store.Analytics.PlaylistsForUser("u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 playlists, got %d", len(summaries))
	}
	if summaries[0].PlaylistID != "p2" {
		t.Errorf("expected most recently updated first, got %s", summaries[0].PlaylistID)
	}
	if summaries[0].SongCount != 1 || summaries[1].SongCount != 2 {
		t.Errorf("unexpected song counts: %+v", summaries)
	}

	none, err := store.Analytics.PlaylistsForUser("stranger")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no playlists for unknown user, got %+v", none)
	}
}

func TestPlaylistByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Analytics.PlaylistByID("nope")
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestPlaylistFeaturesJoinsArtists(t *testing.T) {
	store := newTestStore(t)
	seedLibrary(t, store)

	songs, err := store.Analytics.PlaylistFeatures("p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}

	byID := map[string]SongFeatures{}
	for _, s := range songs {
		byID[s.SongID] = s
	}
	if byID["s1"].Artists != "One" {
		t.Errorf("unexpected artists for s1: %q", byID["s1"].Artists)
	}
	if byID["s2"].Artists != "Two" {
		t.Errorf("unexpected artists for s2: %q", byID["s2"].Artists)
	}
}

func TestLibraryFeaturesExcludesPlaylist(t *testing.T) {
	store := newTestStore(t)
	seedLibrary(t, store)

	songs, err := store.Analytics.LibraryFeatures("u1", "p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(songs) != 1 || songs[0].SongID != "s3" {
		t.Errorf("expected only the other playlist's song, got %+v", songs)
	}
}

func TestGenreCounts(t *testing.T) {
	store := newTestStore(t)
	seedLibrary(t, store)

	counts, err := store.Analytics.GenreCounts("p1", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 genres, got %+v", counts)
	}
	// indie rock is credited on both songs, shoegaze only on s1
	if counts[0].Genre != "indie rock" || counts[0].Count != 2 {
		t.Errorf("unexpected top genre: %+v", counts[0])
	}
	if counts[1].Genre != "shoegaze" || counts[1].Count != 1 {
		t.Errorf("unexpected second genre: %+v", counts[1])
	}

	limited, err := store.Analytics.GenreCounts("p1", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied: %+v", limited)
	}
}

func TestSongHistory(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")
	if _, err := store.Songs.InsertBatch([]extract.SongRecord{
		{SongID: "s1", Title: "Older"},
		{SongID: "s2", Title: "Newer"},
	}); err != nil {
		t.Fatalf("failed to seed songs: %v", err)
	}
	_, err := store.Memberships.InsertBatch([]extract.MembershipRecord{
		{PlaylistID: "p1", SongID: "s1", AddedAt: mustTime(t, "2022-01-01T00:00:00Z"), AddedBy: "u1"},
		{PlaylistID: "p1", SongID: "s2", AddedAt: mustTime(t, "2023-01-01T00:00:00Z"), AddedBy: "u1"},
	})
	if err != nil {
		t.Fatalf("failed to seed memberships: %v", err)
	}

	history, err := store.Analytics.SongHistory("u1", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].SongID != "s2" {
		t.Errorf("expected most recently added first, got %+v", history[0])
	}
	if history[0].PlaylistName == "" || history[0].AddedAt == nil {
		t.Errorf("entry missing provenance: %+v", history[0])
	}

	limited, err := store.Analytics.SongHistory("u1", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied: %+v", limited)
	}
}

func TestRandomSong(t *testing.T) {
	store := newTestStore(t)
	seedLibrary(t, store)

	t.Run("Picks From Playlist", func(t *testing.T) {
		song, err := store.Analytics.RandomSong("p1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if song.SongID != "s1" && song.SongID != "s2" {
			t.Errorf("picked song outside playlist: %+v", song)
		}
		if song.Title == "" {
			t.Errorf("song missing title: %+v", song)
		}
	})

	t.Run("Empty Playlist", func(t *testing.T) {
		seedPlaylist(t, store, "empty", "u1")
		_, err := store.Analytics.RandomSong("empty")
		if !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})
}
