package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/filepilot/filepilot/internal/explorer"
)

// Engine orchestrates the walker and the match evaluator. It holds no
// per-search state: the strategy is threaded into each call, so one engine
// serves any number of sequential searches.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine, applying defaults for zero config fields.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.FastTimeout <= 0 {
		cfg.FastTimeout = def.FastTimeout
	}
	if cfg.ComprehensiveTimeout <= 0 {
		cfg.ComprehensiveTimeout = def.ComprehensiveTimeout
	}
	if cfg.ComprehensiveCap <= 0 {
		cfg.ComprehensiveCap = def.ComprehensiveCap
	}
	return &Engine{cfg: cfg}
}

// Search runs the Comprehensive strategy: a deep bounded walk under root,
// returning up to the configured cap of results within the configured
// timeout. A timed-out search cancels its traversal and returns a
// *TimeoutError.
func (e *Engine) Search(ctx context.Context, root, query string) ([]Result, error) {
	return e.run(ctx, root, query, ComprehensiveConstraints(), e.cfg.ComprehensiveCap, e.cfg.ComprehensiveTimeout)
}

// SearchFast runs the Fast strategy: a shallow walk truncated to maxResults,
// under the fast timeout.
func (e *Engine) SearchFast(ctx context.Context, root, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 100
	}
	return e.run(ctx, root, query, FastConstraints(), maxResults, e.cfg.FastTimeout)
}

// SearchInFiles runs the LocalOnly strategy over an already-materialized
// entry list. Scoring is filename-only: the fuzzy score when available,
// otherwise a fixed score for plain substring hits. It never fails and
// entries are copied into results, never retained.
func (e *Engine) SearchInFiles(entries []explorer.Entry, query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	queryLower := strings.ToLower(query)

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		hasSubstring := strings.Contains(strings.ToLower(entry.Name), queryLower)
		score, fuzzyOK := fuzzyScore(entry.Name, query)
		switch {
		case fuzzyOK:
			results = append(results, Result{Entry: entry, Score: score, Kind: ByName})
		case hasSubstring:
			results = append(results, Result{Entry: entry, Score: localSubstringOnly, Kind: ByName})
		}
	}

	sortResults(results)
	return results
}

// run is the shared walk-evaluate-collect pipeline for the bounded
// strategies.
func (e *Engine) run(ctx context.Context, root, query string, constraints Constraints, limit int, timeout time.Duration) ([]Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: path does not exist: %s", ErrInvalidRoot, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, root)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	q := NewQuery(query)

	walker, err := NewWalker(constraints)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	candidates := walker.Walk(ctx, root)

	// Fan out evaluation; each worker owns its slice, merged after Wait.
	// The shared ctx means a timeout stops workers and walker together
	// instead of leaking a background walk.
	g, gctx := errgroup.WithContext(ctx)
	perWorker := make([][]Result, e.cfg.Workers)
	for i := 0; i < e.cfg.Workers; i++ {
		g.Go(func() error {
			var local []Result
			for {
				select {
				case <-gctx.Done():
					perWorker[i] = local
					return gctx.Err()
				case c, ok := <-candidates:
					if !ok {
						// The walker also closes the channel when ctx
						// expires mid-walk; report that, not success.
						perWorker[i] = local
						return gctx.Err()
					}
					if !Prefilter(c.name, c.path, q) {
						continue
					}
					score, kind, ok := Evaluate(c.name, c.path, q)
					if !ok {
						continue
					}
					local = append(local, Result{
						Entry: explorer.Entry{
							Path:     c.path,
							Name:     c.name,
							IsDir:    c.isDir,
							Size:     c.size,
							Modified: c.modTime,
						},
						Score: score,
						Kind:  kind,
					})
				}
			}
		})
	}

	waitErr := g.Wait()
	if waitErr != nil {
		if errors.Is(waitErr, context.DeadlineExceeded) {
			slog.Warn("search timed out",
				slog.String("root", root),
				slog.Duration("limit", timeout),
				slog.Duration("elapsed", time.Since(start)))
			return nil, &TimeoutError{Limit: timeout}
		}
		return nil, waitErr
	}

	var results []Result
	for _, part := range perWorker {
		results = append(results, part...)
	}
	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}

	slog.Debug("search completed",
		slog.String("root", root),
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}

// sortResults orders by score descending. Equal scores tie-break by lexical
// path ascending, making result order deterministic regardless of worker
// scheduling or traversal order.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Path < results[j].Entry.Path
	})
}
