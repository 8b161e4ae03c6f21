// Package ui renders the interactive session with bubbletea. It reads the
// session's view state once per frame and feeds key events back into it; all
// interaction semantics live in the session package.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/filepilot/filepilot/internal/config"
	"github.com/filepilot/filepilot/internal/explorer"
	"github.com/filepilot/filepilot/internal/search"
	"github.com/filepilot/filepilot/internal/session"
)

// renderTick drives status-message fade evaluation.
const renderTick = 250 * time.Millisecond

type (
	tickMsg      time.Time
	fsChangedMsg struct{}

	// debouncedMsg fires after a directive's debounce window. The query
	// snapshot detects staleness: if the buffer moved on, the search is
	// skipped.
	debouncedMsg struct {
		query    string
		strategy search.Strategy
	}

	searchDoneMsg struct {
		query   string
		results []search.Result
		err     error
	}
)

// Model is the bubbletea model wrapping the session.
type Model struct {
	session  *session.Session
	explorer *explorer.Explorer
	engine   *search.Engine
	watcher  *explorer.Watcher

	keys    KeyMap
	styles  Styles
	spinner spinner.Model

	maxFastResults int
	width          int
	height         int

	// One search at a time: results always belong to the most recently
	// completed search. A directive arriving mid-search is parked in
	// pending and re-issued on completion.
	searching bool
	pending   *session.Directive

	quitting bool
}

// NewModel wires the session, engine and explorer into a bubbletea model.
func NewModel(cfg config.Config, exp *explorer.Explorer, engine *search.Engine, watcher *explorer.Watcher) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))

	sess := session.New(exp, session.WithStrategy(cfg.InitialStrategy()))

	styles := DefaultStyles()
	if os.Getenv("NO_COLOR") != "" {
		styles = NoColorStyles()
	}

	return Model{
		session:        sess,
		explorer:       exp,
		engine:         engine,
		watcher:        watcher,
		keys:           NewKeyMap(cfg.Keys),
		styles:         styles,
		spinner:        sp,
		maxFastResults: cfg.MaxFastResults,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{doTick()}
	if m.watcher != nil {
		_ = m.watcher.Watch(m.explorer.CurrentPath())
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.session.Tick()
		return m, doTick()

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fsChangedMsg:
		if err := m.explorer.Refresh(); err != nil {
			slog.Warn("refresh failed", slog.String("error", err.Error()))
		}
		m.session.SyncBrowse()
		return m, waitForChange(m.watcher)

	case debouncedMsg:
		if msg.query != m.session.Query() {
			return m, nil // superseded by newer input
		}
		return m.startSearch(session.Directive{Run: true, Query: msg.query, Strategy: msg.strategy})

	case searchDoneMsg:
		m.searching = false
		if msg.query == m.session.Query() {
			m.session.ApplyResults(msg.results, msg.err)
		}
		if p := m.pending; p != nil {
			m.pending = nil
			if p.Query == m.session.Query() {
				return m.startSearch(*p)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Mode() == session.Typing {
		return m.handleTypingKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.session.EnterSearch()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.session.MovePrev()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.session.MoveNext()
		return m, nil
	case key.Matches(msg, m.keys.Activate):
		return m.activate()
	case key.Matches(msg, m.keys.Back):
		m.session.Back()
		return m, nil
	case key.Matches(msg, m.keys.Parent):
		if m.session.Mode() == session.ViewingResults {
			m.session.Back()
			return m, nil
		}
		m.session.NavigateUp(m.explorer.Up)
		return m, m.rewatch()
	case key.Matches(msg, m.keys.ToggleStrategy):
		return m.toggle()
	case key.Matches(msg, m.keys.Open):
		m.openSelected()
		return m, nil
	case key.Matches(msg, m.keys.Reveal):
		m.revealSelected()
		return m, nil
	}
	return m, nil
}

func (m Model) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Printable characters always go into the query; bindings that alias
	// letters (vim j/k) only apply outside typing.
	switch msg.Type {
	case tea.KeyRunes:
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			d := m.session.InsertRune(r)
			if d.Run {
				cmds = append(cmds, debounceCmd(d))
			}
		}
		return m, tea.Batch(cmds...)
	case tea.KeySpace:
		return m.dispatch(m.session.InsertRune(' '))
	case tea.KeyBackspace:
		return m.dispatch(m.session.Backspace())
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Activate):
		m.session.FinishTyping()
	case key.Matches(msg, m.keys.ToggleStrategy):
		return m.toggle()
	case key.Matches(msg, m.keys.Up):
		m.session.MovePrev()
	case key.Matches(msg, m.keys.Down):
		m.session.MoveNext()
	}
	return m, nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	return m.dispatch(m.session.ToggleStrategy())
}

func (m Model) dispatch(d session.Directive) (tea.Model, tea.Cmd) {
	if !d.Run {
		return m, nil
	}
	return m, debounceCmd(d)
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	open, changedDir := m.session.Activate()
	if open != nil {
		if err := m.explorer.Open(*open); err != nil {
			m.session.SetError(err.Error())
		} else {
			m.session.SetInfo(fmt.Sprintf("Opened %q with the default application", open.Name))
		}
		return m, nil
	}
	if changedDir {
		return m, m.rewatch()
	}
	return m, nil
}

func (m Model) openSelected() {
	entry, ok := m.session.SelectedEntry()
	if !ok {
		return
	}
	if err := m.explorer.Open(entry); err != nil {
		m.session.SetError(err.Error())
		return
	}
	m.session.SetInfo(fmt.Sprintf("Opened %q with the default application", entry.Name))
}

func (m Model) revealSelected() {
	entry, ok := m.session.SelectedEntry()
	if !ok {
		return
	}
	if err := m.explorer.Reveal(entry); err != nil {
		m.session.SetError(err.Error())
		return
	}
	m.session.SetInfo(fmt.Sprintf("Revealed %q in the file manager", entry.Name))
}

// startSearch runs the directive's search as a command. If a search is in
// flight the directive is parked; the newest one wins on completion.
func (m Model) startSearch(d session.Directive) (tea.Model, tea.Cmd) {
	if m.searching {
		m.pending = &d
		return m, nil
	}
	m.searching = true
	m.session.SetInfo(fmt.Sprintf("Searching for %q in %s...", d.Query, m.explorer.CurrentPath()))

	root := m.explorer.CurrentPath()
	entries := m.explorer.Entries()
	engine := m.engine
	maxFast := m.maxFastResults

	run := func() tea.Msg {
		var (
			results []search.Result
			err     error
		)
		switch d.Strategy {
		case search.Comprehensive:
			results, err = engine.Search(context.Background(), root, d.Query)
		case search.LocalOnly:
			results = engine.SearchInFiles(entries, d.Query)
		default:
			results, err = engine.SearchFast(context.Background(), root, d.Query, maxFast)
		}
		return searchDoneMsg{query: d.Query, results: results, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) rewatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	if err := m.watcher.Watch(m.explorer.CurrentPath()); err != nil {
		slog.Debug("watch failed", slog.String("error", err.Error()))
	}
	return nil
}

func doTick() tea.Cmd {
	return tea.Tick(renderTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func debounceCmd(d session.Directive) tea.Cmd {
	return tea.Tick(d.Debounce, func(time.Time) tea.Msg {
		return debouncedMsg{query: d.Query, strategy: d.Strategy}
	})
}

func waitForChange(w *explorer.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changes()
		return fsChangedMsg{}
	}
}

// Run starts the interactive TUI and blocks until the operator quits.
func Run(cfg config.Config, exp *explorer.Explorer, engine *search.Engine) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("stdout is not a terminal; use --search for non-interactive mode")
	}

	watcher, err := explorer.NewWatcher()
	if err != nil {
		slog.Warn("directory watching unavailable", slog.String("error", err.Error()))
		watcher = nil
	}

	model := NewModel(cfg, exp, engine, watcher)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watcher != nil {
		go watcher.Run(ctx)
		defer func() { _ = watcher.Close() }()
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
