package tasks

import (
	"fmt"
	"time"
)

// ProgressUpdate represents a progress event during a sync pass.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase    Phase         // Operation phase
	Step     int           // Current step number within the pass
	Total    int           // Total steps in the pass
	Message  string        // Human-readable message for display
	Fraction float64       // Completed share of the pass, 0..1
	ETA      time.Duration // Estimated time remaining, 0 when unknown
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	SyncPlaylist
	SkipPlaylist
	FillSongGaps
	FillArtistGaps
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case SyncPlaylist:
		return "sync_playlist"
	case SkipPlaylist:
		return "skip_playlist"
	case FillSongGaps:
		return "fill_song_gaps"
	case FillArtistGaps:
		return "fill_artist_gaps"
	case Done:
		return "done"
	default:
		return ""
	}
}

// estimateETA projects the remaining duration of a pass from the time
// already spent: elapsed*total/completed minus elapsed. Unknown until
// at least one step completed.
func estimateETA(elapsed time.Duration, completed, total int) time.Duration {
	if completed <= 0 || total <= 0 || completed > total {
		return 0
	}
	projected := time.Duration(int64(elapsed) * int64(total) / int64(completed))
	return projected - elapsed
}

// etaTracker derives fraction and ETA for per-playlist steps of one pass.
type etaTracker struct {
	started time.Time
	total   int
}

func newETATracker(total int) *etaTracker {
	return &etaTracker{started: time.Now(), total: total}
}

func (t *etaTracker) update(phase Phase, completed int, message string) ProgressUpdate {
	u := ProgressUpdate{
		Phase:   phase,
		Step:    completed,
		Total:   t.total,
		Message: message,
		ETA:     estimateETA(time.Since(t.started), completed, t.total),
	}
	if t.total > 0 {
		u.Fraction = float64(completed) / float64(t.total)
	}
	return u
}

func fetchPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchPlaylists, Message: "Fetching playlists..."}
}

func syncPlaylistUpdate(t *etaTracker, completed int, name string) ProgressUpdate {
	return t.update(SyncPlaylist, completed, fmt.Sprintf("Synced playlist (%s)", name))
}

func skipPlaylistUpdate(t *etaTracker, completed int, name string) ProgressUpdate {
	return t.update(SkipPlaylist, completed, fmt.Sprintf("Skipped empty playlist (%s)", name))
}

func artistGapsUpdate(t *etaTracker, completed int) ProgressUpdate {
	return t.update(FillArtistGaps, completed, "Enriching artists...")
}

func doneUpdate(t *etaTracker, result *SyncResult) ProgressUpdate {
	u := t.update(Done, t.total, fmt.Sprintf("Sync complete: %d playlists, %d new songs", result.PlaylistsSynced, result.Songs.Applied))
	u.Fraction = 1
	u.ETA = 0
	return u
}
