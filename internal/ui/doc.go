// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the synced library:
//  1. [PlaylistListView] : Browse the stored playlists
//  2. [ReportView] : Per-playlist feature medians and top genres
//  3. [SyncView] : Monitor a running sync pass with a progress bar and ETA
//  4. [ResultView] : Display the counters of the finished pass
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the sync engine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
