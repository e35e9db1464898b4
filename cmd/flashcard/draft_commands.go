package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/review"
)

func newDraftsCommand(ctx *commandContext) *cobra.Command {
	draftsCmd := &cobra.Command{
		Use:     "drafts",
		Aliases: []string{"draft", "review"},
		Short:   "Review generated draft cards",
	}

	draftsCmd.AddCommand(newDraftsListCommand(ctx))
	draftsCmd.AddCommand(newDraftsEditCommand(ctx))
	draftsCmd.AddCommand(newDraftsApproveCommand(ctx))
	draftsCmd.AddCommand(newDraftsBulkApproveCommand(ctx))
	draftsCmd.AddCommand(newDraftsRejectCommand(ctx))
	draftsCmd.AddCommand(newDraftsPurgeCommand(ctx))

	return draftsCmd
}

func newDraftsListCommand(ctx *commandContext) *cobra.Command {
	var bookID, batchID, status string
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts (pending by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if skip < 0 || limit < 0 {
				return fmt.Errorf("%w: --skip and --limit must not be negative", domain.ErrValidation)
			}
			filter := review.Filter{BookID: bookID, BatchID: batchID, Skip: skip, Limit: limit}
			if status != "" {
				s, err := domain.ParseDraftStatus(status)
				if err != nil {
					return err
				}
				filter.Status = s
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				wf := review.New(rt.svc, rt.logger)
				wf.SetFilter(filter)
				drafts, err := wf.Drafts(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, drafts)
				}
				if len(drafts) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s drafts\n", wf.Filter().Status)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(draftHeaders, draftRows(drafts)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bookID, "book", "", "Only drafts generated from this book")
	cmd.Flags().StringVar(&batchID, "batch", "", "Only drafts from this generation batch")
	cmd.Flags().StringVar(&status, "status", "", "pending, approved or rejected")
	cmd.Flags().IntVar(&skip, "skip", 0, "Skip this many matching drafts")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many drafts (0 lists every match)")
	return cmd
}

func newDraftsEditCommand(ctx *commandContext) *cobra.Command {
	var front, back, notes, pos, gender, plural string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit DRAFT_ID",
		Short: "Edit a pending draft before approving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.DraftUpdate
			flags := cmd.Flags()
			setIfChanged(flags, "front", &front, &in.Front)
			setIfChanged(flags, "back", &back, &in.Back)
			setIfChanged(flags, "notes", &notes, &in.Notes)
			setIfChanged(flags, "part-of-speech", &pos, &in.PartOfSpeech)
			setIfChanged(flags, "gender", &gender, &in.Gender)
			setIfChanged(flags, "plural", &plural, &in.PluralForm)
			if flags.Changed("tag") {
				in.Tags = &tags
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				wf := review.New(rt.svc, rt.logger)
				draft, err := wf.Edit(c, args[0], in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, draft)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated draft %s: %s = %s\n", draft.ID, cell(draft.Front), cell(draft.Back))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&front, "front", "", "Front text")
	cmd.Flags().StringVar(&back, "back", "", "Back text")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&pos, "part-of-speech", "", "Part of speech")
	cmd.Flags().StringVar(&gender, "gender", "", "Grammatical gender")
	cmd.Flags().StringVar(&plural, "plural", "", "Plural form")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newDraftsApproveCommand(ctx *commandContext) *cobra.Command {
	var deckID string

	cmd := &cobra.Command{
		Use:   "approve DRAFT_ID",
		Short: "Turn a draft into a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				wf := review.New(rt.svc, rt.logger)
				card, err := wf.Approve(c, args[0], deckID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, card)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Approved %s as card %s\n", cell(card.Front), card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&deckID, "deck", "", "Add the new card to this deck")
	return cmd
}

func newDraftsBulkApproveCommand(ctx *commandContext) *cobra.Command {
	var deckID, bookID string
	var allPending bool

	cmd := &cobra.Command{
		Use:   "bulk-approve [DRAFT_ID...]",
		Short: "Approve several pending drafts in one request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if allPending == (len(args) > 0) {
				return fmt.Errorf("%w: pass draft ids or --all-pending", domain.ErrValidation)
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				wf := review.New(rt.svc, rt.logger)
				wf.SetFilter(review.Filter{BookID: bookID, Status: domain.DraftPending})
				if _, err := wf.Drafts(c); err != nil {
					return err
				}
				if allPending {
					wf.SelectAllPending()
				}
				for _, id := range args {
					if _, err := wf.Toggle(id); err != nil {
						return err
					}
				}
				cards, err := wf.BulkApprove(c, deckID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, cards)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Approved %s\n", pluralize(len(cards), "draft", "drafts"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&deckID, "deck", "", "Add the new cards to this deck")
	cmd.Flags().StringVar(&bookID, "book", "", "Limit --all-pending to drafts from this book")
	cmd.Flags().BoolVar(&allPending, "all-pending", false, "Approve every pending draft")
	return cmd
}

func newDraftsRejectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reject DRAFT_ID",
		Short: "Reject a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				wf := review.New(rt.svc, rt.logger)
				msg, err := wf.Reject(c, args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, msg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg.Text())
				return nil
			})
		},
	}
}

func newDraftsPurgeCommand(ctx *commandContext) *cobra.Command {
	var bookID string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete rejected drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				wf := review.New(rt.svc, rt.logger)
				msg, err := wf.PurgeRejected(c, bookID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, msg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg.Text())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bookID, "book", "", "Only purge drafts from this book")
	return cmd
}
