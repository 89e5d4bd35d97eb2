package ui

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/posters/internal/logging"
	"github.com/five82/posters/internal/posters"
	"github.com/five82/posters/internal/prefs"
	"github.com/five82/posters/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewGrid View = iota
	ViewLogs
)

// Pager is the state holder the UI observes and drives.
type Pager interface {
	LoadNextPage(ctx context.Context) bool
	FetchByID(ctx context.Context, id string) error
	ConsumeDeepLink(seq uint64) bool
	Snapshot() state.Snapshot
	Subscribe() (<-chan struct{}, func())
}

// Actions performs the side effects offered for a single wallpaper.
type Actions interface {
	Save(ctx context.Context, wp posters.Wallpaper) (string, error)
	Apply(ctx context.Context, wp posters.Wallpaper) (string, error)
	ShareURL(id string) (string, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Pager     Pager
	Actions   Actions
	ThemeName string
	Columns   int
	PrefsPath string
	LogPath   string
	InitialID string // resolved as a deep link once the program starts
	Tick      time.Duration
}

// statusLine is a transient message shown in the footer.
type statusLine struct {
	text  string
	isErr bool
	at    time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	pager     Pager
	actions   Actions
	prefsPath string
	logPath   string
	initialID string
	tick      time.Duration
	log       zerolog.Logger

	// UI state
	keys        keyMap
	theme       Theme
	columns     int
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Data state
	changes  <-chan struct{}
	snapshot state.Snapshot

	// Grid state
	selected  int
	scrollRow int

	// Detail overlay
	detail    *posters.Wallpaper
	showShare bool
	busy      string // label of the running action, empty when idle

	status statusLine

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model. It subscribes to the pager; the
// subscription lives as long as opts.Context.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	tick := opts.Tick
	if tick == 0 {
		tick = DefaultUIInterval
	}

	columns := opts.Columns
	if columns == 0 {
		columns = prefs.Default().Columns
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:         ctx,
		pager:       opts.Pager,
		actions:     opts.Actions,
		prefsPath:   opts.PrefsPath,
		logPath:     opts.LogPath,
		initialID:   strings.TrimSpace(opts.InitialID),
		tick:        tick,
		log:         logging.NewLogger("ui"),
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		columns:     prefs.ClampColumns(columns),
		currentView: ViewGrid,
		spinner:     sp,
		logState:    logState{follow: true},
	}

	if m.pager != nil {
		ch, unsubscribe := m.pager.Subscribe()
		m.changes = ch
		context.AfterFunc(ctx, unsubscribe)
		m.snapshot = m.pager.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.tick),
	}
	if m.pager != nil {
		cmds = append(cmds, m.waitForChange(), m.loadPageCmd())
		if m.initialID != "" {
			cmds = append(cmds, m.fetchByIDCmd(m.initialID))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureVisible()
		m.updateLogViewport()
		return m, m.prefetchCmd()

	case tickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, tea.Batch(m.waitForChange(), m.prefetchCmd())

	case actionResultMsg:
		m.handleActionResult(msg)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.detail != nil && m.currentView == ViewGrid {
		return m.renderDetail()
	}

	return m.renderMain()
}

// applySnapshot folds a pager snapshot into the model and consumes any
// pending deep link. A link stored after snap was taken stays in the slot.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if n := len(snap.Items); m.selected >= n {
		m.selected = maxInt(n-1, 0)
	}

	switch {
	case snap.DeepLink != nil:
		wp := *snap.DeepLink
		m.openDetail(wp)
		m.currentView = ViewGrid
		m.showHelp = false
		m.setStatus("Opened "+displayTitle(wp.DisplayName()), false)
		m.pager.ConsumeDeepLink(snap.DeepLinkSeq)
	case snap.DeepLinkErr != nil:
		m.setStatus(snap.DeepLinkErr.Error(), true)
		m.pager.ConsumeDeepLink(snap.DeepLinkSeq)
	}
	m.ensureVisible()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewGrid
			return m, nil
		}
		m.currentView = ViewLogs
		m.updateLogViewport()
		return m, m.refreshLogsCmd()
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	if m.detail != nil {
		return m.handleDetailKey(msg)
	}
	return m.handleGridKey(msg)
}

// handleTick processes the housekeeping tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}

	if m.status.text != "" && time.Since(m.status.at) > statusTTL {
		m.status = statusLine{}
	}

	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogsCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = statusLine{text: text, isErr: isErr, at: time.Now()}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Columns: m.columns}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("failed to save preferences")
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + load status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderGrid())
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type actionKind int

const (
	actionSave actionKind = iota
	actionApply
)

type actionResultMsg struct {
	kind actionKind
	wp   posters.Wallpaper
	path string
	size int64
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the pager signals a change and then delivers a
// fresh snapshot. It returns nil once the context is done.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ctx, ch, pager := m.ctx, m.changes, m.pager
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return snapshotMsg(pager.Snapshot())
		}
	}
}

// loadPageCmd asks the pager for the next page. Results arrive through the
// subscription, so the command itself yields no message.
func (m Model) loadPageCmd() tea.Cmd {
	ctx, pager := m.ctx, m.pager
	return func() tea.Msg {
		pager.LoadNextPage(ctx)
		return nil
	}
}

func (m Model) fetchByIDCmd(id string) tea.Cmd {
	ctx, pager := m.ctx, m.pager
	return func() tea.Msg {
		_ = pager.FetchByID(ctx, id)
		return nil
	}
}

func (m Model) actionCmd(kind actionKind, wp posters.Wallpaper) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch kind {
		case actionApply:
			path, err = actions.Apply(ctx, wp)
		default:
			path, err = actions.Save(ctx, wp)
		}
		msg := actionResultMsg{kind: kind, wp: wp, path: path, err: err}
		if err == nil {
			if info, statErr := os.Stat(path); statErr == nil {
				msg.size = info.Size()
			}
		}
		return msg
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = ctx

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Shut down from outside, not a failure.
		return nil
	}
	return err
}
