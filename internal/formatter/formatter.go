// package formatter renders sync results and analytics reports to plain text, CSV, and Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/twsweeney/tunescope/internal/repositories"
)

// FeatureStat is one audio descriptor compared between a playlist and
// the rest of the library. The OK flags are false when no song carried
// the descriptor.
type FeatureStat struct {
	Name       string
	Playlist   float64
	PlaylistOK bool
	Library    float64
	LibraryOK  bool
}

// Median returns the median of values. The second return is false for
// an empty input.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// CompareFeatures computes per-descriptor medians for the playlist's
// songs against the rest of the library, in canonical descriptor order.
// Songs missing a descriptor contribute nothing to that median.
func CompareFeatures(playlist, library []repositories.SongFeatures) []FeatureStat {
	collect := func(songs []repositories.SongFeatures, name string) []float64 {
		var values []float64
		for _, s := range songs {
			if v, ok := s.Values[name]; ok {
				values = append(values, v)
			}
		}
		return values
	}

	stats := make([]FeatureStat, 0, len(repositories.FeatureNames))
	for _, name := range repositories.FeatureNames {
		stat := FeatureStat{Name: name}
		stat.Playlist, stat.PlaylistOK = Median(collect(playlist, name))
		stat.Library, stat.LibraryOK = Median(collect(library, name))
		stats = append(stats, stat)
	}
	return stats
}

func formatMedian(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FeatureReportText renders a feature comparison as an aligned text table.
func FeatureReportText(playlistName string, stats []FeatureStat) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Feature medians: %s vs rest of library\n\n", playlistName)

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tPLAYLIST\tLIBRARY")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, formatMedian(s.Playlist, s.PlaylistOK), formatMedian(s.Library, s.LibraryOK))
	}
	w.Flush()
	return buf.Bytes()
}

// FeatureReportMarkdown renders a feature comparison as a Markdown table.
func FeatureReportMarkdown(playlistName string, stats []FeatureStat) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\nFeature medians against the rest of the library.\n\n", playlistName)
	buf.WriteString("| Feature | Playlist | Library |\n|---|---|---|\n")
	for _, s := range stats {
		fmt.Fprintf(&buf, "| %s | %s | %s |\n", s.Name, formatMedian(s.Playlist, s.PlaylistOK), formatMedian(s.Library, s.LibraryOK))
	}
	return buf.Bytes()
}

// PlaylistsText renders the playlist listing as an aligned text table.
func PlaylistsText(summaries []repositories.PlaylistSummary) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSONGS\tCREATED\tUPDATED\tID")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", s.Name, s.SongCount, formatDate(s.CreatedDate), formatDate(s.LastUpdated), s.PlaylistID)
	}
	w.Flush()
	return buf.Bytes()
}

// GenresText renders a playlist's top genres.
func GenresText(playlistName string, counts []repositories.GenreCount) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Top genres: %s\n\n", playlistName)
	for i, c := range counts {
		fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, c.Genre, c.Count)
	}
	return buf.Bytes()
}

// HistoryText renders recently added songs across the library.
func HistoryText(entries []repositories.HistoryEntry) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ADDED\tTITLE\tPLAYLIST\tBY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", formatDate(e.AddedAt), e.Title, e.PlaylistName, e.AddedBy)
	}
	w.Flush()
	return buf.Bytes()
}

// SongsToCSV exports a playlist's songs with their descriptors, one row
// per song: ID, Title, Artists, then the descriptors in canonical order.
func SongsToCSV(songs []repositories.SongFeatures) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := append([]string{"ID", "Title", "Artists"}, repositories.FeatureNames...)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{song.SongID, song.Title, song.Artists}
		for _, name := range repositories.FeatureNames {
			if v, ok := song.Values[name]; ok {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}
