package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/search"
)

func newCardsSearchCommand(ctx *commandContext) *cobra.Command {
	var all, interactive bool
	var pages, limit int

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search cards by front or back text",
		Long: "Search cards by front or back text.\n\n" +
			"With --interactive, each line read from stdin replaces the query; a search\n" +
			"runs once typing pauses for the configured debounce interval.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
					return runInteractiveSearch(c, cmd, rt, limit)
				})
			}
			if len(args) == 0 {
				return fmt.Errorf("%w: search query is required (or use --interactive)", domain.ErrValidation)
			}
			query := args[0]
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				if limit <= 0 {
					limit = rt.cfg.Search.PageSize
				}
				maxPages := pages
				if all {
					maxPages = 0
				} else if maxPages <= 0 {
					maxPages = 1
				}
				p := search.NewPaginator(rt.svc.SearchCards, query, limit)
				cards, err := p.All(c, maxPages)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, cards)
				}
				out := cmd.OutOrStdout()
				if len(cards) == 0 {
					fmt.Fprintf(out, "No cards match %q\n", strings.TrimSpace(query))
					return nil
				}
				fmt.Fprint(out, renderTable(cardHeaders, cardRows(cards)))
				if !p.Done() {
					fmt.Fprintf(out, "More results available (fetched %s); use --all or --pages\n", pluralize(p.Pages(), "page", "pages"))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Follow cursors until every result is fetched")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of result pages to fetch")
	cmd.Flags().IntVar(&limit, "limit", 0, "Results per page (defaults to search.page_size)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read queries from stdin as you type")
	return cmd
}

// runInteractiveSearch feeds stdin lines through a debouncer so only the
// query the user settles on is sent. The last value is always searched
// before returning.
func runInteractiveSearch(ctx context.Context, cmd *cobra.Command, rt *runtime, limit int) error {
	if limit <= 0 {
		limit = rt.cfg.Search.PageSize
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queries := make(chan string, 1)
	deb := search.NewDebouncer(rt.cfg.DebounceInterval(), func(q string) {
		select {
		case queries <- q:
		case <-ctx.Done():
		}
	})
	defer deb.Stop()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		readErr <- scanLines(ctx, cmd.InOrStdin(), lines)
	}()

	if isInteractive(cmd.InOrStdin()) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Type to search; Ctrl-D to finish.")
	}

	last := ""
	searched := false
	run := func(q string) error {
		if searched && q == last {
			return nil
		}
		last, searched = q, true
		page, err := rt.svc.SearchCards(ctx, q, "", limit)
		if err != nil {
			return err
		}
		printSearchPage(cmd.OutOrStdout(), q, page)
		return nil
	}

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return err
				}
				deb.Stop()
				select {
				case q := <-queries:
					if err := run(q); err != nil {
						return err
					}
				default:
				}
				return run(deb.Value())
			}
			deb.Set(strings.TrimSpace(line))
		case q := <-queries:
			if err := run(q); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func scanLines(ctx context.Context, r io.Reader, out chan<- string) error {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read queries: %w", err)
	}
	return nil
}

func printSearchPage(out io.Writer, q string, page domain.SearchPage) {
	if strings.TrimSpace(q) == "" {
		fmt.Fprintln(out, "> (empty query)")
		return
	}
	suffix := ""
	if page.NextCursor != "" {
		suffix = ", more available"
	}
	fmt.Fprintf(out, "> %s (%s%s)\n", q, pluralize(len(page.Results), "result", "results"), suffix)
	for _, c := range page.Results {
		fmt.Fprintf(out, "  %s = %s\n", cell(c.Front), cell(c.Back))
	}
}
