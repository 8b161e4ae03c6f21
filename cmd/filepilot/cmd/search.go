package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filepilot/filepilot/internal/search"
)

// searchOptions holds CLI flags for one-shot search.
type searchOptions struct {
	limit    int
	strategy string
	scores   bool
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a directory tree and print ranked matches",
		Long: `Search a directory tree without the interactive interface.

Matches are ranked the same way as interactive search: fuzzy name
matches first, then regex and substring path matches. Prints one
path per line, best match first.

Examples:
  filepilot search config
  filepilot search '\.ya?ml$' --limit 20
  filepilot search report --path ~/Documents --scores`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runOneShot(cmd.Context(), cmd, root, opts, query)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 100, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "comprehensive", "Search strategy: fast, comprehensive")
	cmd.Flags().BoolVar(&opts.scores, "scores", false, "Print match scores and kinds")
	cmd.Flags().StringVarP(&root.path, "path", "p", "", "Directory to search (default: current directory)")

	return cmd
}

func runOneShot(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts searchOptions, query string) error {
	dir := root.path
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	strategy, err := search.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	slog.Info("one-shot search",
		slog.String("query", query),
		slog.String("dir", dir),
		slog.String("strategy", strategy.String()))

	engine := search.NewEngine(search.DefaultConfig())

	var results []search.Result
	if strategy == search.Fast {
		results, err = engine.SearchFast(ctx, dir, query, opts.limit)
	} else {
		results, err = engine.Search(ctx, dir, query)
	}
	if err != nil {
		return err
	}
	if len(results) > opts.limit {
		results = results[:opts.limit]
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if opts.scores {
			fmt.Fprintf(out, "%6d  %-4s  %s\n", r.Score, r.Kind, r.Entry.Path)
		} else {
			fmt.Fprintln(out, r.Entry.Path)
		}
	}
	if len(results) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no matches for %q in %s\n", query, dir)
	}
	return nil
}
