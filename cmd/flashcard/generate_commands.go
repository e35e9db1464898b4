package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/review"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate draft cards from a book",
	}

	generateCmd.AddCommand(newGenerateNextCommand(ctx))
	generateCmd.AddCommand(newGenerateRangeCommand(ctx))

	return generateCmd
}

func newGenerateNextCommand(ctx *commandContext) *cobra.Command {
	var pages, cards int

	cmd := &cobra.Command{
		Use:   "next BOOK_ID",
		Short: "Generate drafts from the pages after the reading cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID := args[0]
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				if !cmd.Flags().Changed("pages") {
					pages = rt.cfg.Generation.DefaultPages
				}
				if !cmd.Flags().Changed("cards") {
					cards = rt.cfg.Generation.DefaultCards
				}
				return withGenerationLock(rt, bookID, func() error {
					wf := review.New(rt.svc, rt.logger)
					res, err := wf.GenerateNext(c, bookID, pages, cards)
					if err != nil {
						return err
					}
					return printGeneration(cmd, ctx, res)
				})
			})
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 0, "Number of pages to read (defaults to generation.default_pages)")
	cmd.Flags().IntVar(&cards, "cards", 0, "Number of cards to generate (defaults to generation.default_cards)")
	return cmd
}

func newGenerateRangeCommand(ctx *commandContext) *cobra.Command {
	var cards int

	cmd := &cobra.Command{
		Use:   "range BOOK_ID START END",
		Short: "Generate drafts from an explicit page range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID := args[0]
			start, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: start page %q is not a number", domain.ErrValidation, args[1])
			}
			end, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("%w: end page %q is not a number", domain.ErrValidation, args[2])
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				if !cmd.Flags().Changed("cards") {
					cards = rt.cfg.Generation.DefaultCards
				}
				return withGenerationLock(rt, bookID, func() error {
					wf := review.New(rt.svc, rt.logger)
					res, err := wf.GenerateRange(c, bookID, start, end, cards)
					if err != nil {
						return err
					}
					return printGeneration(cmd, ctx, res)
				})
			})
		},
	}
	cmd.Flags().IntVar(&cards, "cards", 0, "Number of cards to generate (defaults to generation.default_cards)")
	return cmd
}

// withGenerationLock runs fn while holding the per-book generation lock so
// two terminals cannot spend generation quota on the same pages.
func withGenerationLock(rt *runtime, bookID string, fn func() error) error {
	lockPath := rt.cfg.LockPath(bookID)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire generation lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("generation already running for book %s (lock %s)", bookID, lockPath)
	}
	rt.logger.Debug("generation lock acquired", logging.BookID(bookID), logging.String("lock", lockPath))
	defer func() {
		if err := lock.Unlock(); err != nil {
			rt.logger.Warn("failed to release generation lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}()
	return fn()
}

func printGeneration(cmd *cobra.Command, ctx *commandContext, res domain.GenerationResult) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch %s: %s from pages %d-%d\n",
		res.BatchID, pluralize(len(res.Drafts), "draft", "drafts"),
		res.PagesProcessed.Start, res.PagesProcessed.End)
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	if len(res.Drafts) > 0 {
		fmt.Fprint(out, renderTable(draftHeaders, draftRows(res.Drafts)))
		fmt.Fprintf(out, "Review with: flashcard drafts list --batch %s\n", res.BatchID)
	}
	return nil
}
