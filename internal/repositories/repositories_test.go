package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/twsweeney/tunescope/internal/extract"
	"github.com/twsweeney/tunescope/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// a single connection keeps the in-memory database alive across queries
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewStore(db)
}

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", s, err)
	}
	return &parsed
}

func seedPlaylist(t *testing.T, store *Store, playlistID, appUserID string) {
	t.Helper()
	_, err := store.Playlists.InsertBatch([]extract.PlaylistRecord{
		{PlaylistID: playlistID, Name: "Playlist " + playlistID, OwnerID: appUserID, AppUserID: appUserID},
	})
	if err != nil {
		t.Fatalf("failed to seed playlist: %v", err)
	}
}

func seedSongs(t *testing.T, store *Store, playlistID string, songIDs ...string) {
	t.Helper()
	for _, id := range songIDs {
		_, err := store.Songs.InsertBatch([]extract.SongRecord{{SongID: id, Title: "Song " + id}})
		if err != nil {
			t.Fatalf("failed to seed song %s: %v", id, err)
		}
		_, err = store.Memberships.InsertBatch([]extract.MembershipRecord{{PlaylistID: playlistID, SongID: id}})
		if err != nil {
			t.Fatalf("failed to seed membership %s: %v", id, err)
		}
	}
}

func TestPlaylistInsertBatch(t *testing.T) {
	store := newTestStore(t)
	records := []extract.PlaylistRecord{
		{PlaylistID: "p1", Name: "Mix", OwnerID: "u1", AppUserID: "u1"},
		{PlaylistID: "p2", Name: "Other", OwnerID: "u1", IsCollaborative: true, AppUserID: "u1"},
	}

	first, err := store.Playlists.InsertBatch(records)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Applied != 2 || first.Conflicts != 0 {
		t.Errorf("unexpected first pass result: %+v", first)
	}

	second, err := store.Playlists.InsertBatch(records)
	if err != nil {
		t.Fatalf("expected conflicts to be recovered, got %v", err)
	}
	if second.Applied != 0 || second.Conflicts != 2 {
		t.Errorf("expected all conflicts on re-run, got %+v", second)
	}
}

func TestPlaylistMergeWindow(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")

	earliest := mustTime(t, "2022-01-01T00:00:00Z")
	latest := mustTime(t, "2023-06-01T00:00:00Z")
	if err := store.Playlists.MergeWindow("p1", earliest, latest); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	summary, err := store.Analytics.PlaylistByID("p1")
	if err != nil {
		t.Fatalf("expected playlist, got %v", err)
	}
	if summary.CreatedDate == nil || !summary.CreatedDate.Equal(*earliest) {
		t.Errorf("unexpected created date: %v", summary.CreatedDate)
	}
	if summary.LastUpdated == nil || !summary.LastUpdated.Equal(*latest) {
		t.Errorf("unexpected last updated: %v", summary.LastUpdated)
	}

	// nil bounds must leave the stored values untouched
	if err := store.Playlists.MergeWindow("p1", nil, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	summary, err = store.Analytics.PlaylistByID("p1")
	if err != nil {
		t.Fatalf("expected playlist, got %v", err)
	}
	if summary.CreatedDate == nil || summary.LastUpdated == nil {
		t.Error("nil bounds clobbered the stored window")
	}
}

func TestSongInsertBatch(t *testing.T) {
	store := newTestStore(t)

	t.Run("Skips Tombstones", func(t *testing.T) {
		result, err := store.Songs.InsertBatch([]extract.SongRecord{
			{SongID: "s1", Title: "Alive"},
			{}, // tombstoned playlist entry
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Applied != 1 || result.Skipped != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		result, err := store.Songs.InsertBatch([]extract.SongRecord{{SongID: "s1", Title: "Renamed"}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Conflicts != 1 {
			t.Errorf("expected conflict on re-insert, got %+v", result)
		}
	})
}

func TestSongMergeFeatures(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")
	seedSongs(t, store, "p1", "s1", "s2")

	result, err := store.Songs.MergeFeatures([]extract.FeatureRecord{
		{SongID: "s1", Danceability: 0.8, Tempo: 128},
		{SongID: "missing", Danceability: 0.1},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Applied != 1 || result.Skipped != 1 {
		t.Errorf("unexpected merge result: %+v", result)
	}

	songs, err := store.Analytics.PlaylistFeatures("p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var merged, unmerged *SongFeatures
	for i := range songs {
		switch songs[i].SongID {
		case "s1":
			merged = &songs[i]
		case "s2":
			unmerged = &songs[i]
		}
	}
	if merged == nil || merged.Values["danceability"] != 0.8 || merged.Values["tempo"] != 128 {
		t.Errorf("unexpected merged features: %+v", merged)
	}
	if unmerged == nil || len(unmerged.Values) != 0 {
		t.Errorf("expected no descriptors on unmerged song, got %+v", unmerged)
	}
}

func TestSongFeatureGaps(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")
	seedSongs(t, store, "p1", "s1", "s2", "s3")

	if _, err := store.Songs.MergeFeatures([]extract.FeatureRecord{{SongID: "s2", Danceability: 0.5}}); err != nil {
		t.Fatalf("failed to merge: %v", err)
	}

	t.Run("Complete And Chunked", func(t *testing.T) {
		chunks, err := store.Songs.FeatureGaps("p1", 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks of 1, got %v", chunks)
		}

		seen := map[string]int{}
		for _, chunk := range chunks {
			if len(chunk) != 1 {
				t.Errorf("chunk over size limit: %v", chunk)
			}
			for _, id := range chunk {
				seen[id]++
			}
		}
		if seen["s1"] != 1 || seen["s3"] != 1 {
			t.Errorf("gaps missing or duplicated: %v", seen)
		}
		if _, ok := seen["s2"]; ok {
			t.Error("merged song reported as gap")
		}
	})

	t.Run("Scoped To Playlist", func(t *testing.T) {
		seedPlaylist(t, store, "p2", "u1")
		seedSongs(t, store, "p2", "s9")

		chunks, err := store.Songs.FeatureGaps("p1", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, chunk := range chunks {
			for _, id := range chunk {
				if id == "s9" {
					t.Error("gap query leaked across playlists")
				}
			}
		}
	})
}

func TestArtistRepositories(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")
	seedSongs(t, store, "p1", "s1", "s2")

	credits := []extract.ArtistCreditRecord{
		{ArtistID: "ar1", Name: "One", SongID: "s1"},
		{ArtistID: "ar1", Name: "One", SongID: "s2"},
		{ArtistID: "ar2", Name: "Two", SongID: "s2"},
	}

	t.Run("Insert Artists From Credits", func(t *testing.T) {
		result, err := store.Artists.InsertBatch(credits)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		// ar1 appears twice: first applied, second conflicting
		if result.Applied != 2 || result.Conflicts != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Insert Credits", func(t *testing.T) {
		result, err := store.Credits.InsertBatch(credits)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Applied != 3 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Gaps Before Merge", func(t *testing.T) {
		chunks, err := store.Artists.Gaps(10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(chunks) != 1 || len(chunks[0]) != 2 {
			t.Fatalf("expected both artists as gaps exactly once, got %v", chunks)
		}
	})

	t.Run("Merge Details", func(t *testing.T) {
		result, err := store.Artists.MergeDetails([]extract.ArtistDetailRecord{
			{ArtistID: "ar1", Name: "One", Popularity: 61, Genres: []string{"indie rock", "shoegaze"}},
			{ArtistID: "ghost", Popularity: 1},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Applied != 1 || result.Skipped != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Gaps After Merge", func(t *testing.T) {
		// ar1 is enriched; ar2 still misses popularity and genres but must
		// appear exactly once despite the genre join
		chunks, err := store.Artists.Gaps(10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(chunks) != 1 || len(chunks[0]) != 1 || chunks[0][0] != "ar2" {
			t.Fatalf("expected only ar2 as gap, got %v", chunks)
		}
	})

	t.Run("Merge Details Is Idempotent", func(t *testing.T) {
		result, err := store.Artists.MergeDetails([]extract.ArtistDetailRecord{
			{ArtistID: "ar1", Name: "One", Popularity: 61, Genres: []string{"indie rock"}},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Applied != 1 || result.Conflicts != 1 {
			t.Errorf("expected genre conflict on re-merge, got %+v", result)
		}
	})
}

func TestMembershipInsertBatch(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")
	if _, err := store.Songs.InsertBatch([]extract.SongRecord{{SongID: "s1", Title: "Song"}}); err != nil {
		t.Fatalf("failed to seed song: %v", err)
	}

	added := mustTime(t, "2023-01-15T10:00:00Z")
	records := []extract.MembershipRecord{
		{PlaylistID: "p1", SongID: "s1", AddedAt: added, AddedBy: "u1"},
		{PlaylistID: "p1", AddedBy: "u1"}, // tombstone
	}

	first, err := store.Memberships.InsertBatch(records)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Applied != 1 || first.Skipped != 1 {
		t.Errorf("unexpected result: %+v", first)
	}

	second, err := store.Memberships.InsertBatch(records)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Conflicts != 1 || second.Skipped != 1 {
		t.Errorf("expected conflict on re-run, got %+v", second)
	}
}

func TestDeleteForUser(t *testing.T) {
	store := newTestStore(t)
	seedPlaylist(t, store, "p1", "u1")
	seedPlaylist(t, store, "p2", "other")
	seedSongs(t, store, "p1", "s1")
	seedSongs(t, store, "p2", "s2")

	deleted, err := store.Playlists.DeleteForUser("u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 playlist deleted, got %d", deleted)
	}

	if _, err := store.Analytics.PlaylistByID("p1"); !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound, got %v", err)
	}

	// memberships cascade away with the playlist, the song row stays
	history, err := store.Analytics.SongHistory("u1", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected no history after delete, got %+v", history)
	}

	songs, err := store.Analytics.PlaylistFeatures("p2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(songs) != 1 {
		t.Errorf("other user's playlist affected: %+v", songs)
	}
}

func TestChunkIDs(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name string
		size int
		want int
	}{
		{"Exact Fit", 5, 1},
		{"Split", 2, 3},
		{"Single Chunk When Unbounded", 0, 1},
		{"Oversized", 100, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chunks := chunkIDs(ids, tc.size)
			if len(chunks) != tc.want {
				t.Fatalf("expected %d chunks, got %v", tc.want, chunks)
			}
			total := 0
			for _, chunk := range chunks {
				total += len(chunk)
			}
			if total != len(ids) {
				t.Errorf("chunking lost ids: %v", chunks)
			}
		})
	}

	if chunkIDs(nil, 10) != nil {
		t.Error("expected nil chunks for no ids")
	}
}
