package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vinyl/internal/formatter"
	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/desertthunder/vinyl/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AlbumListView ViewState = iota
	DetailView
	CommentView
	ConfirmImportView
	ImportView
	ResultView
)

// Catalog reads albums for the list view.
type Catalog interface {
	ListSorted(ctx context.Context, field models.SortField, dir models.SortDirection) ([]models.Album, error)
	Random(ctx context.Context) (*models.Album, error)
}

// Journal records listenings and loads history for the detail view.
type Journal interface {
	MarkListened(ctx context.Context, albumID int64, comment string) (*models.Listening, error)
	History(ctx context.Context, albumID int64) (*tasks.History, error)
}

// Importer runs a collection sync from the import view.
type Importer interface {
	Import(ctx context.Context, req tasks.ImportRequest, progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)
}

// ModelOpts contains dependencies for [NewModel].
type ModelOpts struct {
	Catalog  Catalog
	Journal  Journal
	Importer Importer            // optional; import is disabled when nil
	Import   tasks.ImportRequest // account and token used by the import view
	Location *time.Location      // zone for rendering listenings, defaults to local
}

var sortFields = []models.SortField{models.SortByArtist, models.SortByTitle, models.SortByYear}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      Catalog
	journal      Journal
	importer     Importer
	importReq    tasks.ImportRequest
	loc          *time.Location
	width        int
	height       int
	albumList    list.Model
	sortField    models.SortField
	sortDir      models.SortDirection
	history      *tasks.History
	pager        *shared.Pager[models.Listening]
	comment      textinput.Model
	progressChan chan tasks.ProgressUpdate
	waitDone     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.ImportResult
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}

	input := textinput.New()
	input.Placeholder = models.DefaultComment
	input.CharLimit = 280

	albumList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	albumList.Title = "Record Collection"

	return &Model{
		ctx:       ctx,
		view:      AlbumListView,
		catalog:   opts.Catalog,
		journal:   opts.Journal,
		importer:  opts.Importer,
		importReq: opts.Import,
		loc:       opts.Location,
		albumList: albumList,
		sortField: models.SortByArtist,
		sortDir:   models.Ascending,
		comment:   input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchAlbums()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.albumList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case CommentView:
			return m.handleCommentKeys(msg)
		case ConfirmImportView:
			return m.handleConfirmKeys(msg)
		case ImportView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == AlbumListView {
		m.albumList, cmd = m.albumList.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgAlbumsFetched:
		data := msg.data.(albumsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.albumList.Title = fmt.Sprintf("Record Collection (%d) by %s %s", len(data.albums), m.sortField, m.sortDir)
		return m, m.albumList.SetItems(albumItems(data.albums))

	case MsgHistoryFetched:
		data := msg.data.(historyFetched)
		if data.err != nil {
			m.status = styles.err.Render(data.err.Error())
			return m, nil
		}
		m.history = data.history
		m.pager = shared.NewPager(data.history.Listenings, shared.HistoryBatchSize)
		m.view = DetailView
		return m, nil

	case MsgListened:
		data := msg.data.(listened)
		m.view = DetailView
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Failed to record listening: %v", data.err))
			return m, nil
		}
		m.status = styles.ok.Render("Listening recorded")
		return m, m.fetchHistory(data.listening.AlbumID)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgImportComplete:
		data := msg.data.(importComplete)
		m.result = data.result
		m.err = data.err
		m.progressChan = nil
		m.waitDone = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.albumList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.albumList, cmd = m.albumList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			return m, m.fetchHistory(item.album.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.sortField = nextSortField(m.sortField)
		return m, m.fetchAlbums()
	case key.Matches(msg, m.keys.order):
		if m.sortDir == models.Ascending {
			m.sortDir = models.Descending
		} else {
			m.sortDir = models.Ascending
		}
		return m, m.fetchAlbums()
	case key.Matches(msg, m.keys.random):
		return m, m.fetchRandom()
	case key.Matches(msg, m.keys.sync):
		if m.importer == nil || m.importReq.AccountID == "" || m.importReq.Token == "" {
			m.status = styles.warn.Render("Set discogs.user_id and a token to import")
			return m, nil
		}
		m.importReq.Overwrite = false
		m.view = ConfirmImportView
		return m, nil
	}

	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = AlbumListView
		m.history = nil
		m.pager = nil
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.more):
		if m.pager != nil {
			m.pager.More()
		}
		return m, nil
	case key.Matches(msg, m.keys.listen):
		m.comment.Reset()
		m.view = CommentView
		return m, m.comment.Focus()
	}
	return m, nil
}

func (m *Model) handleCommentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.comment.Blur()
		m.view = DetailView
		return m, nil
	case tea.KeyEnter:
		m.comment.Blur()
		return m, m.markListened(m.history.Album.ID, m.comment.Value())
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.order):
		m.importReq.Overwrite = !m.importReq.Overwrite
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ImportView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startImport()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = AlbumListView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back):
		m.view = AlbumListView
		m.result = nil
		m.err = nil
		return m, m.fetchAlbums()
	}
	return m, nil
}

func nextSortField(f models.SortField) models.SortField {
	for i, field := range sortFields {
		if field == f {
			return sortFields[(i+1)%len(sortFields)]
		}
	}
	return models.SortByArtist
}

func (m *Model) fetchAlbums() tea.Cmd {
	field, dir := m.sortField, m.sortDir
	return func() tea.Msg {
		albums, err := m.catalog.ListSorted(m.ctx, field, dir)
		return albumsFetchedMsg(albums, err)
	}
}

func (m *Model) fetchHistory(albumID int64) tea.Cmd {
	return func() tea.Msg {
		history, err := m.journal.History(m.ctx, albumID)
		return historyFetchedMsg(history, err)
	}
}

func (m *Model) fetchRandom() tea.Cmd {
	return func() tea.Msg {
		album, err := m.catalog.Random(m.ctx)
		if err != nil {
			return historyFetchedMsg(nil, err)
		}
		history, err := m.journal.History(m.ctx, album.ID)
		return historyFetchedMsg(history, err)
	}
}

func (m *Model) markListened(albumID int64, comment string) tea.Cmd {
	return func() tea.Msg {
		l, err := m.journal.MarkListened(m.ctx, albumID, comment)
		return listenedMsg(l, err)
	}
}

func (m *Model) startImport() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	req := m.importReq

	go func() {
		result, err := m.importer.Import(m.ctx, req, progress)
		done <- importCompleteMsg(result, err)
		close(progress)
	}()

	m.waitDone = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.waitDone
	return func() tea.Msg {
		if progress == nil {
			return <-done
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case AlbumListView:
		return m.renderAlbumList()
	case DetailView:
		return m.renderDetail()
	case CommentView:
		return m.renderComment()
	case ConfirmImportView:
		return m.renderConfirm()
	case ImportView:
		return m.renderImport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) renderAlbumList() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.sort, m.keys.order, m.keys.random, m.keys.sync, m.keys.quit}
	out := fmt.Sprintf("%s\n%s", m.albumList.View(), m.help.ShortHelpView(helpKeys))
	if m.status != "" {
		out += "\n" + m.status
	}
	return out
}

func (m *Model) renderDetail() string {
	if m.history == nil || m.history.Album == nil {
		return ""
	}
	album := m.history.Album

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s - %s", album.Artist, album.Title)))
	b.WriteString("\n")
	b.WriteString(styles.box.Render(fmt.Sprintf("%s\nDiscogs: %s", styles.badge.Render(album.YearString()), album.SourceURL)))
	b.WriteString("\n\n")

	b.WriteString(styles.ok.Render(fmt.Sprintf("Listening History (%d/%d)", m.pager.Shown(), m.pager.Total())))
	b.WriteString("\n")
	if m.pager.Total() == 0 {
		b.WriteString(styles.help.Render("  No listening history."))
		b.WriteString("\n")
	}
	for _, l := range m.pager.Visible() {
		b.WriteString("  " + formatter.FormatListening(l, m.loc) + "\n")
	}
	if m.pager.HasMore() {
		b.WriteString(styles.help.Render(fmt.Sprintf("  %d more, press m to load", m.pager.Remaining())))
		b.WriteString("\n")
	}

	if len(m.history.Notes) > 0 {
		b.WriteString("\n" + styles.ok.Render("Notes") + "\n")
		for _, n := range m.history.Notes {
			b.WriteString("  " + formatter.FormatNote(n) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	helpKeys := []key.Binding{m.keys.more, m.keys.listen, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderComment() string {
	title := styles.title.Render(fmt.Sprintf("Listened to %s", m.history.Album.Title))
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.comment.View(), styles.help.Render("enter save • esc cancel"))
}

func (m *Model) renderConfirm() string {
	mode := "incremental (new albums only)"
	if m.importReq.Overwrite {
		mode = styles.warn.Render("overwrite (replaces the whole catalog)")
	}

	title := styles.title.Render(fmt.Sprintf("Import Discogs collection for %s?", m.importReq.AccountID))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no, key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle overwrite"))}
	return fmt.Sprintf("%s\nMode: %s\n\n%s", title, mode, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderImport() string {
	title := styles.title.Render("Importing Collection")

	var phase string
	switch m.progress.Phase {
	case tasks.Fetching:
		phase = fmt.Sprintf("Fetching (page %d)", m.progress.Step)
	case tasks.Merging:
		phase = fmt.Sprintf("Merging (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Cleared:
		phase = "Catalog cleared"
	default:
		phase = "Preparing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, styles.phase(m.progress.Phase).Render(phase), styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Import failed: %v\n\nPress enter to return, q to quit", m.err))
	}
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress enter to return, q to quit")
	}

	title := styles.ok.Render(fmt.Sprintf("✓ %d new album(s) imported", m.result.NewCount))
	info := fmt.Sprintf("\nFetched: %d\nSkipped: %d\nPages: %d\nDuration: %s",
		m.result.Fetched, m.result.Skipped, m.result.Pages, m.result.Duration.Round(time.Millisecond))

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}
