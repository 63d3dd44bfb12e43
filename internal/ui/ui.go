package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/twsweeney/tunescope/internal/formatter"
	"github.com/twsweeney/tunescope/internal/repositories"
	"github.com/twsweeney/tunescope/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ReportView
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	store     *repositories.Store
	engine    tasks.SyncEngine
	appUserID string

	width  int
	height int

	playlistList list.Model
	listReady    bool

	reportTitle string
	reportBody  string

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	bar          progress.Model
	result       *tasks.SyncResult
	err          error

	help help.Model
	keys keyMap
}

type playlistsLoadedMsg struct {
	summaries []repositories.PlaylistSummary
	err       error
}

type reportLoadedMsg struct {
	title string
	body  string
	err   error
}

type progressMsg tasks.ProgressUpdate

type syncDoneMsg struct {
	result *tasks.SyncResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store *repositories.Store, engine tasks.SyncEngine, appUserID string) *Model {
	return &Model{
		ctx:       ctx,
		view:      PlaylistListView,
		store:     store,
		engine:    engine,
		appUserID: appUserID,
		bar:       progress.New(progress.WithDefaultGradient()),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the stored playlists.
func (m *Model) Init() tea.Cmd {
	return m.loadPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ReportView:
			return m.handleReportKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		// the sync view ignores input until the pass finishes
		return m, nil

	case playlistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.summaries))
		for i, s := range msg.summaries {
			items[i] = playlistItem{summary: s}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Synced Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		m.view = PlaylistListView
		return m, nil

	case reportLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reportTitle = msg.title
		m.reportBody = msg.body
		m.view = ReportView
		return m, nil

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == PlaylistListView && m.listReady {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case ReportView:
		return m.renderReport()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.view = SyncView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startSync()
	case "r":
		return m, m.loadPlaylists()
	case "enter":
		if selected := m.playlistList.SelectedItem(); selected != nil {
			if item, ok := selected.(playlistItem); ok {
				return m, m.loadReport(item.summary)
			}
		}
	}

	if !m.listReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "r":
		m.view = PlaylistListView
		m.result = nil
		m.err = nil
		return m, m.loadPlaylists()
	}
	return m, nil
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		summaries, err := m.store.Analytics.PlaylistsForUser(m.appUserID)
		return playlistsLoadedMsg{summaries: summaries, err: err}
	}
}

func (m *Model) loadReport(summary repositories.PlaylistSummary) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.store.Analytics.PlaylistFeatures(summary.PlaylistID)
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		library, err := m.store.Analytics.LibraryFeatures(m.appUserID, summary.PlaylistID)
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		genres, err := m.store.Analytics.GenreCounts(summary.PlaylistID, 10)
		if err != nil {
			return reportLoadedMsg{err: err}
		}

		stats := formatter.CompareFeatures(playlist, library)
		body := string(formatter.FeatureReportText(summary.Name, stats)) +
			"\n" + string(formatter.GenresText(summary.Name, genres))
		return reportLoadedMsg{title: summary.Name, body: body}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, m.appUserID)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncDoneMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncDoneMsg{result: m.result, err: m.err}
		}
		return progressMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	if !m.listReady {
		return styles.help.Render("Loading playlists...")
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.sync, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderReport() string {
	title := styles.title.Render(fmt.Sprintf("Report: %s", m.reportTitle))
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s", title, m.reportBody, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Library")

	status := m.progress.Message
	if status == "" {
		status = "Starting sync..."
	}
	line := fmt.Sprintf("%s (%d/%d)", status, m.progress.Step, m.progress.Total)
	if m.progress.ETA > 0 {
		line = fmt.Sprintf("%s • about %s left", line, m.progress.ETA.Round(time.Second))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.bar.ViewAs(m.progress.Fraction), line)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to return, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to return, q to quit")
	}

	title := styles.ok.Render("✓ Sync Complete")
	info := fmt.Sprintf(
		"\nPlaylists: %d synced, %d skipped\nNew songs: %d\nNew memberships: %d\nArtists enriched: %d\nDuration: %s",
		m.result.PlaylistsSynced,
		m.result.PlaylistsSkipped,
		m.result.Songs.Applied,
		m.result.Memberships.Applied,
		m.result.ArtistDetails.Applied,
		m.result.Duration.Round(time.Millisecond),
	)

	helpKeys := []key.Binding{m.keys.refresh, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}
