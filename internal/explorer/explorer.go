// Package explorer provides the directory listing the interactive session
// browses. It is a thin readdir+stat+sort wrapper; traversal and ranking
// live in the search package.
package explorer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

// Entry is an immutable metadata snapshot of one filesystem path.
// A zero Modified time means the modification time could not be read.
type Entry struct {
	Path     string
	Name     string
	IsDir    bool
	Size     int64
	Modified time.Time
}

// EntryFromPath stats path and builds an Entry.
func EntryFromPath(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	var modified time.Time
	if mt := info.ModTime(); !mt.IsZero() {
		modified = mt
	}
	return Entry{
		Path:     path,
		Name:     filepath.Base(path),
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: modified,
	}, nil
}

// Explorer holds the current directory and its sorted listing.
// Refreshes replace the listing wholesale; entries are never mutated in place.
type Explorer struct {
	currentPath string
	entries     []Entry
}

// New creates an Explorer rooted at path and loads its listing.
func New(path string) (*Explorer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}
	e := &Explorer{currentPath: abs}
	if err := e.Refresh(); err != nil {
		return nil, err
	}
	return e, nil
}

// CurrentPath returns the directory the explorer is showing.
func (e *Explorer) CurrentPath() string {
	return e.currentPath
}

// Entries returns the current listing. Callers must treat it as read-only;
// the slice is replaced, never patched, on refresh.
func (e *Explorer) Entries() []Entry {
	return e.entries
}

// Navigate moves into path if it is a directory and reloads the listing.
func (e *Explorer) Navigate(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", abs)
	}
	e.currentPath = abs
	return e.Refresh()
}

// Up moves to the parent directory. At the filesystem root it is a no-op.
func (e *Explorer) Up() error {
	parent := filepath.Dir(e.currentPath)
	if parent == e.currentPath {
		return nil
	}
	e.currentPath = parent
	return e.Refresh()
}

// Refresh reloads the listing for the current directory.
// Entries that fail to stat are skipped; the listing is sorted
// directories-first, then by name.
func (e *Explorer) Refresh() error {
	dirEntries, err := os.ReadDir(e.currentPath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry, err := EntryFromPath(filepath.Join(e.currentPath, de.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})

	e.entries = entries
	return nil
}

// Open launches the platform default application for a file entry.
func (e *Explorer) Open(entry Entry) error {
	if entry.IsDir {
		return fmt.Errorf("cannot open directory %q as a file", entry.Name)
	}
	return openWithSystem(entry.Path)
}

// Reveal opens the containing directory of entry in the system file manager.
func (e *Explorer) Reveal(entry Entry) error {
	path := entry.Path
	if !entry.IsDir {
		path = filepath.Dir(path)
	}
	return openWithSystem(path)
}

// openWithSystem dispatches to the platform opener.
func openWithSystem(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	// Detach; the opener owns the process from here.
	go func() { _ = cmd.Wait() }()
	return nil
}
