// Package session holds the interactive state machine driving the file
// browser: the current mode, the incremental query buffer, the ranked result
// list, selection cursors, and transient status messaging. It is independent
// of the rendering layer; the UI reads its view state once per tick and feeds
// keystrokes back in.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/filepilot/filepilot/internal/explorer"
	"github.com/filepilot/filepilot/internal/search"
)

// Mode is the interaction state. The machine has no terminal state; it runs
// until the process exits.
type Mode int

const (
	// Browsing navigates the plain directory listing.
	Browsing Mode = iota
	// Typing is incremental query entry; each keystroke re-searches.
	Typing
	// ViewingResults keeps the last result list navigable after typing.
	ViewingResults
)

func (m Mode) String() string {
	switch m {
	case Typing:
		return "typing"
	case ViewingResults:
		return "viewing-results"
	default:
		return "browsing"
	}
}

// Debounce delays inserted before the next search fires. Typing gets a longer
// window than a strategy toggle because keystrokes arrive in bursts.
const (
	TypeDebounce   = 100 * time.Millisecond
	ToggleDebounce = 50 * time.Millisecond
)

// Explorer is the directory-listing collaborator the session navigates with.
type Explorer interface {
	CurrentPath() string
	Entries() []explorer.Entry
	Navigate(path string) error
}

// Directive asks the caller to run a search after a debounce delay. Searches
// are serialized by the caller: one at a time, newest query wins.
type Directive struct {
	Run      bool
	Query    string
	Strategy search.Strategy
	Debounce time.Duration
}

// Session is created once per run.
type Session struct {
	explorer Explorer

	mode     Mode
	query    string
	results  []search.Result
	strategy search.Strategy

	browseCursor cursor
	resultCursor cursor

	status StatusMessage
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source, for deterministic fade tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithStrategy sets the initial search strategy.
func WithStrategy(st search.Strategy) Option {
	return func(s *Session) {
		s.strategy = st
	}
}

// New creates a session in Browsing mode with the first entry selected.
func New(exp Explorer, opts ...Option) *Session {
	s := &Session{
		explorer: exp,
		mode:     Browsing,
		strategy: search.Fast,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.browseCursor.reset(len(exp.Entries()))
	s.status = StatusMessage{Text: DefaultHint, Level: Info, setAt: s.now()}
	return s
}

// Mode returns the current interaction state.
func (s *Session) Mode() Mode { return s.mode }

// Query returns the query buffer.
func (s *Session) Query() string { return s.query }

// Results returns the current ranked result list.
func (s *Session) Results() []search.Result { return s.results }

// Strategy returns the strategy the next search will use.
func (s *Session) Strategy() search.Strategy { return s.strategy }

// Status returns the current status message.
func (s *Session) Status() StatusMessage { return s.status }

// Selection returns the highlighted index of the active list: the browse
// list in Browsing, the result list otherwise.
func (s *Session) Selection() (int, bool) {
	if s.mode == Browsing {
		return s.browseCursor.selection()
	}
	return s.resultCursor.selection()
}

// EnterSearch transitions to Typing, clearing the query buffer and any
// previous result list.
func (s *Session) EnterSearch() {
	s.mode = Typing
	s.query = ""
	s.results = nil
	s.resultCursor.reset(0)
	s.SetInfo(fmt.Sprintf("Search mode: %s - type to search, Tab to toggle strategy, Esc to finish", s.strategy.Description()))
}

// InsertRune appends a character to the query and requests a debounced
// re-search under the current strategy.
func (s *Session) InsertRune(r rune) Directive {
	if s.mode != Typing {
		return Directive{}
	}
	s.query += string(r)
	return Directive{Run: true, Query: s.query, Strategy: s.strategy, Debounce: TypeDebounce}
}

// Backspace removes the last rune. An emptied query clears results without
// searching.
func (s *Session) Backspace() Directive {
	if s.mode != Typing || s.query == "" {
		return Directive{}
	}
	runes := []rune(s.query)
	s.query = string(runes[:len(runes)-1])
	if s.query == "" {
		s.results = nil
		s.resultCursor.reset(0)
		return Directive{}
	}
	return Directive{Run: true, Query: s.query, Strategy: s.strategy, Debounce: TypeDebounce}
}

// ToggleStrategy advances the strategy cyclically. Already-displayed results
// are untouched; a non-empty query while typing re-runs under the new
// strategy.
func (s *Session) ToggleStrategy() Directive {
	s.strategy = s.strategy.Next()
	s.SetInfo("Search strategy: " + s.strategy.Description())
	if s.mode == Typing && s.query != "" {
		return Directive{Run: true, Query: s.query, Strategy: s.strategy, Debounce: ToggleDebounce}
	}
	return Directive{}
}

// FinishTyping leaves Typing: to ViewingResults when results exist, back to
// Browsing when the search is abandoned empty.
func (s *Session) FinishTyping() {
	if s.mode != Typing {
		return
	}
	if len(s.results) > 0 {
		s.mode = ViewingResults
		s.SetInfo(fmt.Sprintf("Search results (%d items) - Enter to open, / to search again, Esc to go back", len(s.results)))
		return
	}
	s.mode = Browsing
	s.query = ""
	s.SetInfo(DefaultHint)
}

// Back discards results from ViewingResults without navigating.
func (s *Session) Back() {
	if s.mode != ViewingResults {
		return
	}
	s.clearResults()
}

// clearResults resets search state and returns to Browsing.
func (s *Session) clearResults() {
	s.mode = Browsing
	s.query = ""
	s.results = nil
	s.resultCursor.reset(0)
	s.browseCursor.reset(len(s.explorer.Entries()))
	s.SetInfo(DefaultHint)
}

// ApplyResults installs the outcome of the search a Directive requested. The
// result list is replaced wholesale, never patched.
func (s *Session) ApplyResults(results []search.Result, err error) {
	if err != nil {
		switch {
		case errors.Is(err, search.ErrTimedOut):
			s.SetWarning(err.Error())
		case errors.Is(err, search.ErrInvalidRoot):
			s.SetError(err.Error())
		default:
			s.SetError("Search error: " + err.Error())
		}
		return
	}

	s.results = results
	s.resultCursor.reset(len(results))
	if len(results) == 0 {
		s.SetWarning(fmt.Sprintf("No results for %q (%s)", s.query, s.strategy.Description()))
		return
	}
	s.SetInfo(fmt.Sprintf("Found %d results (%s)", len(results), s.strategy.Description()))
}

// MoveNext moves the active list selection down one, wrapping.
func (s *Session) MoveNext() {
	if s.mode == Browsing {
		s.browseCursor.next(len(s.explorer.Entries()))
		return
	}
	s.resultCursor.next(len(s.results))
}

// MovePrev moves the active list selection up one, wrapping.
func (s *Session) MovePrev() {
	if s.mode == Browsing {
		s.browseCursor.prev(len(s.explorer.Entries()))
		return
	}
	s.resultCursor.prev(len(s.results))
}

// SelectedEntry returns the entry under the cursor of the active list.
func (s *Session) SelectedEntry() (explorer.Entry, bool) {
	if s.mode == Browsing {
		idx, ok := s.browseCursor.selection()
		entries := s.explorer.Entries()
		if !ok || idx >= len(entries) {
			return explorer.Entry{}, false
		}
		return entries[idx], true
	}
	idx, ok := s.resultCursor.selection()
	if !ok || idx >= len(s.results) {
		return explorer.Entry{}, false
	}
	return s.results[idx].Entry, true
}

// Activate acts on the selected item. Directories are entered (clearing any
// results and returning to Browsing); files are returned to the caller as a
// pass-through open action, leaving the mode unchanged.
func (s *Session) Activate() (open *explorer.Entry, changedDir bool) {
	entry, ok := s.SelectedEntry()
	if !ok {
		return nil, false
	}
	if !entry.IsDir {
		return &entry, false
	}

	if err := s.explorer.Navigate(entry.Path); err != nil {
		s.SetError(fmt.Sprintf("Cannot enter %s: %v", entry.Name, err))
		return nil, false
	}
	if s.mode == Browsing {
		s.browseCursor.reset(len(s.explorer.Entries()))
	} else {
		s.clearResults()
	}
	return nil, true
}

// NavigateUp moves the explorer to the parent directory while Browsing.
func (s *Session) NavigateUp(up func() error) {
	if s.mode != Browsing {
		return
	}
	if err := up(); err != nil {
		s.SetError("Cannot go up: " + err.Error())
		return
	}
	s.browseCursor.reset(len(s.explorer.Entries()))
}

// SyncBrowse clamps the browse cursor after the listing was refreshed
// externally (directory watcher, manual refresh).
func (s *Session) SyncBrowse() {
	s.browseCursor.clamp(len(s.explorer.Entries()))
}

// Tick evaluates message fade. Call once per render tick.
func (s *Session) Tick() {
	if s.status.expired(s.now()) {
		s.status = StatusMessage{Text: DefaultHint, Level: Info, setAt: s.now()}
	}
}

// SetInfo sets a persistent informational status message.
func (s *Session) SetInfo(text string) {
	s.status = StatusMessage{Text: text, Level: Info, setAt: s.now()}
}

// SetWarning sets a status message that fades after 5 seconds.
func (s *Session) SetWarning(text string) {
	s.status = StatusMessage{Text: text, Level: Warning, setAt: s.now(), ttl: warningFade}
}

// SetError sets a status message that fades after 8 seconds.
func (s *Session) SetError(text string) {
	s.status = StatusMessage{Text: text, Level: Error, setAt: s.now(), ttl: errorFade}
}
