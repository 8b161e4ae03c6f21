package explorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "zeta.txt"), "z")
	mustWrite(t, filepath.Join(root, "alpha.txt"), "a")
	mustWrite(t, filepath.Join(root, "sub", "nested.txt"), "n")
	return root
}

func TestNew(t *testing.T) {
	root := newTestDir(t)
	e, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, root, e.CurrentPath())

	entries := e.Entries()
	require.Len(t, entries, 3)
	// Directories sort first, then names ascending.
	assert.Equal(t, "sub", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "alpha.txt", entries[1].Name)
	assert.Equal(t, "zeta.txt", entries[2].Name)
}

func TestNewErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := New("/nonexistent/nowhere")
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "f.txt")
		mustWrite(t, file, "x")
		_, err := New(file)
		assert.Error(t, err)
	})
}

func TestNavigate(t *testing.T) {
	root := newTestDir(t)
	e, err := New(root)
	require.NoError(t, err)

	sub := filepath.Join(root, "sub")
	require.NoError(t, e.Navigate(sub))
	assert.Equal(t, sub, e.CurrentPath())
	require.Len(t, e.Entries(), 1)
	assert.Equal(t, "nested.txt", e.Entries()[0].Name)

	t.Run("into a file fails", func(t *testing.T) {
		err := e.Navigate(filepath.Join(sub, "nested.txt"))
		assert.Error(t, err)
		assert.Equal(t, sub, e.CurrentPath(), "failed navigation keeps the current directory")
	})
}

func TestUp(t *testing.T) {
	root := newTestDir(t)
	e, err := New(filepath.Join(root, "sub"))
	require.NoError(t, err)

	require.NoError(t, e.Up())
	assert.Equal(t, root, e.CurrentPath())
	assert.Len(t, e.Entries(), 3)
}

func TestUpAtFilesystemRoot(t *testing.T) {
	e, err := New("/")
	require.NoError(t, err)

	require.NoError(t, e.Up())
	assert.Equal(t, "/", e.CurrentPath())
}

func TestRefreshPicksUpChanges(t *testing.T) {
	root := t.TempDir()
	e, err := New(root)
	require.NoError(t, err)
	assert.Empty(t, e.Entries())

	mustWrite(t, filepath.Join(root, "new.txt"), "x")
	require.NoError(t, e.Refresh())
	require.Len(t, e.Entries(), 1)
	assert.Equal(t, "new.txt", e.Entries()[0].Name)
}

func TestEntryFromPath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	mustWrite(t, path, "hello")

	entry, err := EntryFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "f.txt", entry.Name)
	assert.Equal(t, path, entry.Path)
	assert.False(t, entry.IsDir)
	assert.Equal(t, int64(5), entry.Size)
	assert.False(t, entry.Modified.IsZero())

	_, err = EntryFromPath(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestOpenRejectsDirectories(t *testing.T) {
	root := t.TempDir()
	e, err := New(root)
	require.NoError(t, err)

	err = e.Open(Entry{Path: root, Name: "root", IsDir: true})
	assert.Error(t, err)
}
