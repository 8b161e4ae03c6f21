package search

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreCacheSize bounds the number of compiled gitignore matchers kept per
// walker, preventing unbounded growth on very wide trees.
const ignoreCacheSize = 1000

// Constraints bound one traversal. They are data, not code: strategies differ
// only in the values below.
type Constraints struct {
	// MaxDepth is the deepest directory level visited, counted from the
	// root (0 = unbounded).
	MaxDepth int
	// MaxFileSize skips files larger than this many bytes (0 = unbounded).
	MaxFileSize int64
	// RespectIgnoreFiles honors .gitignore rules found during the walk.
	RespectIgnoreFiles bool
	// IncludeHidden includes dotfiles and descends into dot-directories.
	IncludeHidden bool
}

// FastConstraints bound the Fast strategy: shallow and small, for sub-second
// interactive response.
func FastConstraints() Constraints {
	return Constraints{
		MaxDepth:           4,
		MaxFileSize:        50 * 1024 * 1024,
		RespectIgnoreFiles: true,
		IncludeHidden:      true,
	}
}

// ComprehensiveConstraints bound the Comprehensive strategy: deeper but still
// bounded to avoid pathological runtimes.
func ComprehensiveConstraints() Constraints {
	return Constraints{
		MaxDepth:           8,
		MaxFileSize:        100 * 1024 * 1024,
		RespectIgnoreFiles: true,
		IncludeHidden:      true,
	}
}

// candidate is a traversal hit that has not yet been promoted to a full
// entry record. Name and path are enough for the pre-filter; the stat fields
// ride along so promotion costs no extra syscall.
type candidate struct {
	path    string
	name    string
	isDir   bool
	size    int64
	modTime time.Time
}

// Walker performs constraint-bounded directory traversal, yielding a lazy,
// unordered stream of candidates. Order is deliberately unspecified; ranking,
// not traversal order, determines final output order.
type Walker struct {
	constraints Constraints
	ignoreCache *lru.Cache[string, *ignore.GitIgnore]
}

// NewWalker creates a walker for the given constraints.
func NewWalker(c Constraints) (*Walker, error) {
	cache, err := lru.New[string, *ignore.GitIgnore](ignoreCacheSize)
	if err != nil {
		return nil, err
	}
	return &Walker{constraints: c, ignoreCache: cache}, nil
}

// Walk traverses root and streams candidates on the returned channel. The
// channel closes when the walk finishes or ctx is cancelled. Entries that
// error during stat are skipped silently; the walk never aborts on a single
// bad entry.
func (w *Walker) Walk(ctx context.Context, root string) <-chan candidate {
	out := make(chan candidate, 64)

	go func() {
		defer close(out)
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				return nil // unreadable entry, keep walking
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil
			}

			if d.IsDir() && d.Name() == ".git" {
				return filepath.SkipDir
			}
			if !w.constraints.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if w.constraints.RespectIgnoreFiles && w.isIgnored(root, rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			info, infoErr := d.Info()
			if infoErr != nil {
				return nil // raced with deletion or permission denied
			}

			depth := strings.Count(rel, string(filepath.Separator)) + 1
			if d.IsDir() {
				c := candidate{path: path, name: d.Name(), isDir: true, modTime: info.ModTime()}
				if sendErr := send(ctx, out, c); sendErr != nil {
					return sendErr
				}
				if w.constraints.MaxDepth > 0 && depth >= w.constraints.MaxDepth {
					return filepath.SkipDir
				}
				return nil
			}

			if w.constraints.MaxFileSize > 0 && info.Size() > w.constraints.MaxFileSize {
				return nil
			}

			c := candidate{
				path:    path,
				name:    d.Name(),
				size:    info.Size(),
				modTime: info.ModTime(),
			}
			return send(ctx, out, c)
		})
	}()

	return out
}

func send(ctx context.Context, out chan<- candidate, c candidate) error {
	select {
	case out <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isIgnored checks rel against every .gitignore between the root and the
// entry's parent directory.
func (w *Walker) isIgnored(root, rel string) bool {
	if m := w.matcherFor(root); m != nil && m.MatchesPath(rel) {
		return true
	}

	dir := filepath.Dir(rel)
	if dir == "." {
		return false
	}

	parts := strings.Split(dir, string(filepath.Separator))
	current := root
	for i, part := range parts {
		current = filepath.Join(current, part)
		m := w.matcherFor(current)
		if m == nil {
			continue
		}
		sub := filepath.Join(parts[i+1:]...)
		sub = filepath.Join(sub, filepath.Base(rel))
		if m.MatchesPath(sub) {
			return true
		}
	}
	return false
}

// matcherFor returns the compiled .gitignore for dir, or nil when dir has
// none. Compiled matchers are cached with LRU eviction.
func (w *Walker) matcherFor(dir string) *ignore.GitIgnore {
	if m, ok := w.ignoreCache.Get(dir); ok {
		return m
	}

	ignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignorePath); err != nil {
		return nil
	}
	m, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		return nil
	}
	w.ignoreCache.Add(dir, m)
	return m
}
