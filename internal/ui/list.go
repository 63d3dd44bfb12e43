package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/twsweeney/tunescope/internal/repositories"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [repositories.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	summary repositories.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.summary.Name }
func (i playlistItem) Title() string       { return i.summary.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.summary.SongCount)
	if i.summary.LastUpdated != nil {
		desc = fmt.Sprintf("%s • updated %s", desc, i.summary.LastUpdated.Format("2006-01-02"))
	}
	return desc
}
