package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filepilot/filepilot/internal/explorer"
	"github.com/filepilot/filepilot/internal/search"
)

// fakeExplorer is an in-memory Explorer for state machine tests.
type fakeExplorer struct {
	path    string
	entries map[string][]explorer.Entry
	navErr  error
}

func (f *fakeExplorer) CurrentPath() string { return f.path }

func (f *fakeExplorer) Entries() []explorer.Entry { return f.entries[f.path] }

func (f *fakeExplorer) Navigate(path string) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.path = path
	return nil
}

func newFakeExplorer() *fakeExplorer {
	return &fakeExplorer{
		path: "/root",
		entries: map[string][]explorer.Entry{
			"/root": {
				{Path: "/root/docs", Name: "docs", IsDir: true},
				{Path: "/root/a.txt", Name: "a.txt"},
				{Path: "/root/b.txt", Name: "b.txt"},
			},
			"/root/docs": {
				{Path: "/root/docs/c.md", Name: "c.md"},
			},
		},
	}
}

func someResults() []search.Result {
	return []search.Result{
		{Entry: explorer.Entry{Path: "/root/a.txt", Name: "a.txt"}, Score: 90, Kind: search.ByName},
		{Entry: explorer.Entry{Path: "/root/docs", Name: "docs", IsDir: true}, Score: 40, Kind: search.ByPath},
	}
}

func TestNewSession(t *testing.T) {
	s := New(newFakeExplorer())

	assert.Equal(t, Browsing, s.Mode())
	assert.Empty(t, s.Query())
	assert.Equal(t, search.Fast, s.Strategy())
	assert.Equal(t, DefaultHint, s.Status().Text)

	idx, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestNewSessionEmptyDirectory(t *testing.T) {
	s := New(&fakeExplorer{path: "/empty"})
	_, ok := s.Selection()
	assert.False(t, ok)
}

func TestWithStrategy(t *testing.T) {
	s := New(newFakeExplorer(), WithStrategy(search.Comprehensive))
	assert.Equal(t, search.Comprehensive, s.Strategy())
}

func TestEnterSearchClearsState(t *testing.T) {
	s := New(newFakeExplorer())
	s.EnterSearch()
	s.ApplyResults(someResults(), nil)
	s.FinishTyping()
	require.Equal(t, ViewingResults, s.Mode())

	s.EnterSearch()
	assert.Equal(t, Typing, s.Mode())
	assert.Empty(t, s.Query())
	assert.Empty(t, s.Results())
}

func TestInsertRune(t *testing.T) {
	s := New(newFakeExplorer())

	t.Run("ignored outside typing", func(t *testing.T) {
		d := s.InsertRune('a')
		assert.False(t, d.Run)
		assert.Empty(t, s.Query())
	})

	t.Run("builds query and requests search", func(t *testing.T) {
		s.EnterSearch()
		d := s.InsertRune('a')
		require.True(t, d.Run)
		assert.Equal(t, "a", d.Query)
		assert.Equal(t, TypeDebounce, d.Debounce)
		assert.Equal(t, search.Fast, d.Strategy)

		d = s.InsertRune('b')
		assert.Equal(t, "ab", d.Query)
		assert.Equal(t, "ab", s.Query())
	})
}

func TestBackspace(t *testing.T) {
	s := New(newFakeExplorer())
	s.EnterSearch()
	s.InsertRune('a')
	s.InsertRune('b')
	s.ApplyResults(someResults(), nil)

	d := s.Backspace()
	require.True(t, d.Run)
	assert.Equal(t, "a", d.Query)

	// Emptying the query clears results without requesting a search.
	d = s.Backspace()
	assert.False(t, d.Run)
	assert.Empty(t, s.Query())
	assert.Empty(t, s.Results())

	d = s.Backspace()
	assert.False(t, d.Run)
}

func TestToggleStrategyCycles(t *testing.T) {
	s := New(newFakeExplorer())

	s.ToggleStrategy()
	assert.Equal(t, search.Comprehensive, s.Strategy())
	s.ToggleStrategy()
	assert.Equal(t, search.LocalOnly, s.Strategy())
	s.ToggleStrategy()
	assert.Equal(t, search.Fast, s.Strategy())
}

func TestToggleStrategyWhileTyping(t *testing.T) {
	s := New(newFakeExplorer())
	s.EnterSearch()
	s.InsertRune('x')

	d := s.ToggleStrategy()
	require.True(t, d.Run)
	assert.Equal(t, "x", d.Query)
	assert.Equal(t, search.Comprehensive, d.Strategy)
	assert.Equal(t, ToggleDebounce, d.Debounce)
}

func TestToggleStrategyNoSearchWithoutQuery(t *testing.T) {
	s := New(newFakeExplorer())

	t.Run("browsing", func(t *testing.T) {
		d := s.ToggleStrategy()
		assert.False(t, d.Run)
	})

	t.Run("typing with empty query", func(t *testing.T) {
		s.EnterSearch()
		d := s.ToggleStrategy()
		assert.False(t, d.Run)
	})
}

func TestFinishTyping(t *testing.T) {
	t.Run("with results", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.InsertRune('a')
		s.ApplyResults(someResults(), nil)

		s.FinishTyping()
		assert.Equal(t, ViewingResults, s.Mode())
		assert.Equal(t, "a", s.Query())
		assert.Len(t, s.Results(), 2)
	})

	t.Run("without results", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.InsertRune('a')

		s.FinishTyping()
		assert.Equal(t, Browsing, s.Mode())
		assert.Empty(t, s.Query())
	})

	t.Run("noop outside typing", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.FinishTyping()
		assert.Equal(t, Browsing, s.Mode())
	})
}

func TestBackDiscardsResults(t *testing.T) {
	s := New(newFakeExplorer())
	s.EnterSearch()
	s.ApplyResults(someResults(), nil)
	s.FinishTyping()
	require.Equal(t, ViewingResults, s.Mode())

	s.Back()
	assert.Equal(t, Browsing, s.Mode())
	assert.Empty(t, s.Results())
	assert.Empty(t, s.Query())
}

func TestApplyResults(t *testing.T) {
	t.Run("success selects first result", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.ApplyResults(someResults(), nil)

		assert.Len(t, s.Results(), 2)
		idx, ok := s.Selection()
		require.True(t, ok)
		assert.Equal(t, 0, idx)
		assert.Equal(t, Info, s.Status().Level)
		assert.Contains(t, s.Status().Text, "Found 2 results")
	})

	t.Run("no results warns", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.ApplyResults(nil, nil)
		assert.Equal(t, Warning, s.Status().Level)
	})

	t.Run("timeout keeps previous results", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.ApplyResults(someResults(), nil)

		s.ApplyResults(nil, &search.TimeoutError{Limit: 10 * time.Second})
		assert.Equal(t, Warning, s.Status().Level)
		assert.Len(t, s.Results(), 2)
	})

	t.Run("invalid root is an error message", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.ApplyResults(nil, search.ErrInvalidRoot)
		assert.Equal(t, Error, s.Status().Level)
	})

	t.Run("other errors are reported", func(t *testing.T) {
		s := New(newFakeExplorer())
		s.EnterSearch()
		s.ApplyResults(nil, errors.New("disk on fire"))
		assert.Equal(t, Error, s.Status().Level)
		assert.Contains(t, s.Status().Text, "disk on fire")
	})
}

func TestCursorWrapsAround(t *testing.T) {
	s := New(newFakeExplorer()) // 3 entries

	s.MoveNext()
	s.MoveNext()
	idx, _ := s.Selection()
	assert.Equal(t, 2, idx)

	s.MoveNext()
	idx, _ = s.Selection()
	assert.Equal(t, 0, idx, "next past the end wraps to the first entry")

	s.MovePrev()
	idx, _ = s.Selection()
	assert.Equal(t, 2, idx, "prev past the start wraps to the last entry")
}

func TestSelectionFollowsMode(t *testing.T) {
	s := New(newFakeExplorer())
	s.MoveNext() // browse cursor at 1

	s.EnterSearch()
	s.ApplyResults(someResults(), nil)
	s.FinishTyping()

	entry, ok := s.SelectedEntry()
	require.True(t, ok)
	assert.Equal(t, "a.txt", entry.Name, "result cursor is authoritative outside browsing")

	s.Back()
	entry, ok = s.SelectedEntry()
	require.True(t, ok)
	assert.Equal(t, "docs", entry.Name, "browse cursor resets when results are discarded")
}

func TestActivate(t *testing.T) {
	t.Run("directory navigates", func(t *testing.T) {
		fake := newFakeExplorer()
		s := New(fake) // first entry is docs/

		open, changed := s.Activate()
		assert.Nil(t, open)
		assert.True(t, changed)
		assert.Equal(t, "/root/docs", fake.path)
		assert.Equal(t, Browsing, s.Mode())
	})

	t.Run("file passes through", func(t *testing.T) {
		fake := newFakeExplorer()
		s := New(fake)
		s.MoveNext() // a.txt

		open, changed := s.Activate()
		require.NotNil(t, open)
		assert.False(t, changed)
		assert.Equal(t, "a.txt", open.Name)
		assert.Equal(t, "/root", fake.path)
	})

	t.Run("directory from results clears them", func(t *testing.T) {
		fake := newFakeExplorer()
		s := New(fake)
		s.EnterSearch()
		s.ApplyResults(someResults(), nil)
		s.FinishTyping()
		s.MoveNext() // docs result

		open, changed := s.Activate()
		assert.Nil(t, open)
		assert.True(t, changed)
		assert.Equal(t, Browsing, s.Mode())
		assert.Empty(t, s.Results())
		assert.Equal(t, "/root/docs", fake.path)
	})

	t.Run("navigation failure reports error", func(t *testing.T) {
		fake := newFakeExplorer()
		fake.navErr = errors.New("permission denied")
		s := New(fake)

		open, changed := s.Activate()
		assert.Nil(t, open)
		assert.False(t, changed)
		assert.Equal(t, Error, s.Status().Level)
	})
}

func TestNavigateUp(t *testing.T) {
	s := New(newFakeExplorer())

	called := false
	s.NavigateUp(func() error {
		called = true
		return nil
	})
	assert.True(t, called)

	s.NavigateUp(func() error { return errors.New("at root") })
	assert.Equal(t, Error, s.Status().Level)

	s.EnterSearch()
	called = false
	s.NavigateUp(func() error { called = true; return nil })
	assert.False(t, called, "navigation is browsing-only")
}

func TestSyncBrowseClampsCursor(t *testing.T) {
	fake := newFakeExplorer()
	s := New(fake)
	s.MoveNext()
	s.MoveNext() // index 2

	fake.entries["/root"] = fake.entries["/root"][:1]
	s.SyncBrowse()

	idx, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestStatusMessageFade(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := New(newFakeExplorer(), WithClock(clock))

	t.Run("warning fades after five seconds", func(t *testing.T) {
		s.SetWarning("slow search")
		now = now.Add(4 * time.Second)
		s.Tick()
		assert.Equal(t, "slow search", s.Status().Text)

		now = now.Add(2 * time.Second)
		s.Tick()
		assert.Equal(t, DefaultHint, s.Status().Text)
		assert.Equal(t, Info, s.Status().Level)
	})

	t.Run("error fades after eight seconds", func(t *testing.T) {
		s.SetError("boom")
		now = now.Add(7 * time.Second)
		s.Tick()
		assert.Equal(t, "boom", s.Status().Text)

		now = now.Add(2 * time.Second)
		s.Tick()
		assert.Equal(t, DefaultHint, s.Status().Text)
	})

	t.Run("info never fades", func(t *testing.T) {
		s.SetInfo("sticky")
		now = now.Add(time.Hour)
		s.Tick()
		assert.Equal(t, "sticky", s.Status().Text)
	})
}
