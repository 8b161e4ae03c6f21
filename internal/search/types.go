// Package search implements multi-strategy file search: bounded concurrent
// directory traversal, fuzzy/regex/substring scoring, and timeout-bounded
// collection of ranked results.
package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/filepilot/filepilot/internal/explorer"
)

// Strategy selects the traversal and scoring policy for one search.
type Strategy int

const (
	// Fast is a shallow bounded walk tuned for interactive latency.
	Fast Strategy = iota
	// Comprehensive is a deeper bounded walk with a larger result cap.
	Comprehensive
	// LocalOnly scores a pre-supplied entry list without any traversal.
	LocalOnly
)

// Next advances cyclically: Fast -> Comprehensive -> LocalOnly -> Fast.
func (s Strategy) Next() Strategy {
	switch s {
	case Fast:
		return Comprehensive
	case Comprehensive:
		return LocalOnly
	default:
		return Fast
	}
}

func (s Strategy) String() string {
	switch s {
	case Fast:
		return "fast"
	case Comprehensive:
		return "comprehensive"
	case LocalOnly:
		return "local"
	default:
		return "unknown"
	}
}

// Description returns the label shown in the status line.
func (s Strategy) Description() string {
	switch s {
	case Fast:
		return "Fast (limited depth)"
	case Comprehensive:
		return "Comprehensive (full search)"
	default:
		return "Local (current dir only)"
	}
}

// ParseStrategy maps a config/flag value to a Strategy.
func ParseStrategy(v string) (Strategy, error) {
	switch v {
	case "fast", "":
		return Fast, nil
	case "comprehensive", "full":
		return Comprehensive, nil
	case "local", "local-only":
		return LocalOnly, nil
	default:
		return Fast, fmt.Errorf("unknown search strategy %q (want fast, comprehensive, or local)", v)
	}
}

// MatchKind records which rule produced a hit. It is display metadata only;
// ranking uses the score alone.
type MatchKind int

const (
	// ByName means the filename matched (fuzzy or substring).
	ByName MatchKind = iota
	// ByPath means the full path matched (regex or substring).
	ByPath
)

func (k MatchKind) String() string {
	if k == ByName {
		return "name"
	}
	return "path"
}

// Result is one ranked hit. The Entry snapshot is owned by the result list
// that produced it and never shared across searches.
type Result struct {
	Entry explorer.Entry
	Score int64
	Kind  MatchKind
}

// Config tunes the engine. The zero value is usable; defaults are applied
// by NewEngine.
type Config struct {
	// Workers is the evaluation fan-out (0 = NumCPU).
	Workers int
	// FastTimeout bounds SearchFast (default 10s).
	FastTimeout time.Duration
	// ComprehensiveTimeout bounds Search (default 30s).
	ComprehensiveTimeout time.Duration
	// ComprehensiveCap truncates Search results (default 1000).
	ComprehensiveCap int
}

// DefaultConfig returns the documented production limits.
func DefaultConfig() Config {
	return Config{
		FastTimeout:          10 * time.Second,
		ComprehensiveTimeout: 30 * time.Second,
		ComprehensiveCap:     1000,
	}
}

// ErrInvalidRoot marks searches whose root is missing or not a directory.
var ErrInvalidRoot = errors.New("invalid search root")

// ErrTimedOut marks searches that exceeded their strategy's time budget.
// Use errors.Is against this; the concrete error is a *TimeoutError.
var ErrTimedOut = errors.New("search timed out")

// TimeoutError carries the limit that was exceeded.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("search timed out after %s; try a more specific query or a smaller directory", e.Limit)
}

// Is makes errors.Is(err, ErrTimedOut) succeed.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimedOut
}
