package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/domain"
)

func newDecksCommand(ctx *commandContext) *cobra.Command {
	decksCmd := &cobra.Command{
		Use:     "decks",
		Aliases: []string{"deck"},
		Short:   "Manage decks",
	}

	decksCmd.AddCommand(newDecksListCommand(ctx))
	decksCmd.AddCommand(newDecksShowCommand(ctx))
	decksCmd.AddCommand(newDecksCreateCommand(ctx))
	decksCmd.AddCommand(newDecksUpdateCommand(ctx))
	decksCmd.AddCommand(newDecksDeleteCommand(ctx))
	decksCmd.AddCommand(newDecksMembershipCommand(ctx, "add-card", "Add a card to a deck", (*api.Service).AddCardToDeck))
	decksCmd.AddCommand(newDecksMembershipCommand(ctx, "remove-card", "Remove a card from a deck", (*api.Service).RemoveCardFromDeck))

	return decksCmd
}

func newDecksListCommand(ctx *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				decks, err := rt.svc.Decks(c)
				if err != nil {
					return err
				}
				decks = api.FilterDecks(decks, filter)
				if ctx.jsonOutput() {
					return writeJSON(cmd, decks)
				}
				if len(decks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No decks")
					return nil
				}
				rows := make([][]string, 0, len(decks))
				for _, d := range decks {
					rows = append(rows, []string{d.ID, cell(d.Name), fmt.Sprintf("%d", len(d.Cards)), cell(d.Description)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Cards", "Description"},
					rows,
					2,
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show decks whose name contains this text")
	return cmd
}

func newDecksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show DECK_ID",
		Short: "Show a deck and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				deck, err := rt.svc.Deck(c, args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, deck)
				}
				out := cmd.OutOrStdout()
				printSectionHeader(out, deck.Name, shouldColorize(out))
				if deck.Description != "" {
					fmt.Fprintln(out, cell(deck.Description))
				}
				if len(deck.Cards) == 0 {
					fmt.Fprintln(out, "Deck has no cards")
					return nil
				}
				fmt.Fprint(out, renderTable(cardHeaders, cardRows(deck.Cards)))
				return nil
			})
		},
	}
}

func newDecksCreateCommand(ctx *commandContext) *cobra.Command {
	var in domain.DeckCreate

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				deck, err := rt.svc.CreateDeck(c, in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, deck)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s (%s)\n", deck.Name, deck.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "Deck description")
	cmd.Flags().StringSliceVar(&in.CardIDs, "card", nil, "Card id to include (repeatable)")
	return cmd
}

func newDecksUpdateCommand(ctx *commandContext) *cobra.Command {
	var name, description string
	var cardIDs []string

	cmd := &cobra.Command{
		Use:   "update DECK_ID",
		Short: "Rename a deck or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.DeckUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("cards") {
				in.CardIDs = &cardIDs
			}
			if in.Name == nil && in.Description == nil && in.CardIDs == nil {
				return fmt.Errorf("%w: nothing to update (use --name, --description or --cards)", domain.ErrValidation)
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				deck, err := rt.svc.UpdateDeck(c, args[0], in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, deck)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated deck %s (%s)\n", deck.Name, deck.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New deck name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringSliceVar(&cardIDs, "cards", nil, "Replace the deck's cards with these ids")
	return cmd
}

func newDecksDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete DECK_ID",
		Short: "Delete a deck (its cards are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				if err := rt.svc.DeleteDeck(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", args[0])
				return nil
			})
		},
	}
}

type membershipFunc func(*api.Service, context.Context, string, string) (domain.Deck, error)

func newDecksMembershipCommand(ctx *commandContext, use, short string, change membershipFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " DECK_ID CARD_ID",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				deck, err := change(rt.svc, c, args[0], args[1])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, deck)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deck %s now has %s\n", deck.Name, pluralize(len(deck.Cards), "card", "cards"))
				return nil
			})
		},
	}
}
