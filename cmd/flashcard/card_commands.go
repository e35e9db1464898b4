package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/study"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Manage cards",
	}

	cardsCmd.AddCommand(newCardsListCommand(ctx))
	cardsCmd.AddCommand(newCardsShowCommand(ctx))
	cardsCmd.AddCommand(newCardsCreateCommand(ctx))
	cardsCmd.AddCommand(newCardsUpdateCommand(ctx))
	cardsCmd.AddCommand(newCardsDeleteCommand(ctx))
	cardsCmd.AddCommand(newCardsSearchCommand(ctx))

	return cardsCmd
}

func newCardsListCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var hardness []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			levels, err := parseHardnessList(hardness)
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				cards, err := rt.svc.Cards(c)
				if err != nil {
					return err
				}
				cards = api.FilterCards(cards, filter)
				cards = study.FilterByHardness(cards, levels...)
				if ctx.jsonOutput() {
					return writeJSON(cmd, cards)
				}
				if len(cards) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cards")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(cardHeaders, cardRows(cards)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show cards whose front or back contains this text")
	cmd.Flags().StringSliceVar(&hardness, "hardness", nil, "Only show cards at these hardness levels")
	return cmd
}

func newCardsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CARD_ID",
		Short: "Show a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				card, err := rt.svc.Card(c, args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, card)
				}
				printCard(cmd, card)
				return nil
			})
		},
	}
}

func printCard(cmd *cobra.Command, card domain.Card) {
	out := cmd.OutOrStdout()
	printSectionHeader(out, cell(card.Front), shouldColorize(out))
	fields := [][2]string{
		{"ID", card.ID},
		{"Back", card.Back},
		{"Hardness", card.HardnessLevel.String()},
		{"Example", card.ExampleOriginal},
		{"Translation", card.ExampleTranslation},
		{"Part of speech", card.PartOfSpeech},
		{"Gender", card.Gender},
		{"Plural", card.PluralForm},
		{"Notes", card.Notes},
		{"Tags", strings.Join(card.Tags, ", ")},
		{"Edited", formatWhen(card.LastEdited)},
	}
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			continue
		}
		fmt.Fprintf(out, "%-15s %s\n", f[0]+":", cell(f[1]))
	}
	for _, ex := range card.Examples {
		fmt.Fprintf(out, "  - %s", cell(ex.Sentence))
		if ex.Translation != "" {
			fmt.Fprintf(out, " (%s)", cell(ex.Translation))
		}
		fmt.Fprintln(out)
	}
}

type cardFlags struct {
	front, back, hardness, example, translation, notes string
	tags                                               []string
}

func (f *cardFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.front, "front", "", "Front text")
	flags.StringVar(&f.back, "back", "", "Back text")
	flags.StringVar(&f.hardness, "hardness", "", "Hardness level (easy, medium, hard, fail)")
	flags.StringVar(&f.example, "example", "", "Example sentence")
	flags.StringVar(&f.translation, "translation", "", "Translation of the example sentence")
	flags.StringVar(&f.notes, "notes", "", "Free-form notes")
	flags.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
}

func newCardsCreateCommand(ctx *commandContext) *cobra.Command {
	var f cardFlags
	var deckID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.CardCreate{
				Front:              f.front,
				Back:               f.back,
				ExampleOriginal:    f.example,
				ExampleTranslation: f.translation,
				Notes:              f.notes,
				Tags:               f.tags,
			}
			if f.hardness != "" {
				level, err := domain.ParseHardness(f.hardness)
				if err != nil {
					return err
				}
				in.HardnessLevel = level
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				card, err := rt.svc.CreateCard(c, in)
				if err != nil {
					return err
				}
				if deckID != "" {
					if _, err := rt.svc.AddCardToDeck(c, deckID, card.ID); err != nil {
						return fmt.Errorf("card %s created but not added to deck: %w", card.ID, err)
					}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, card)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created card %s (%s)\n", cell(card.Front), card.ID)
				return nil
			})
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVar(&deckID, "deck", "", "Also add the card to this deck")
	return cmd
}

func newCardsUpdateCommand(ctx *commandContext) *cobra.Command {
	var f cardFlags

	cmd := &cobra.Command{
		Use:   "update CARD_ID",
		Short: "Change fields of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.CardUpdate
			flags := cmd.Flags()
			setIfChanged(flags, "front", &f.front, &in.Front)
			setIfChanged(flags, "back", &f.back, &in.Back)
			setIfChanged(flags, "example", &f.example, &in.ExampleOriginal)
			setIfChanged(flags, "translation", &f.translation, &in.ExampleTranslation)
			setIfChanged(flags, "notes", &f.notes, &in.Notes)
			if flags.Changed("tag") {
				in.Tags = &f.tags
			}
			if flags.Changed("hardness") {
				level, err := domain.ParseHardness(f.hardness)
				if err != nil {
					return err
				}
				in.HardnessLevel = &level
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				card, err := rt.svc.UpdateCard(c, args[0], in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, card)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated card %s (%s)\n", cell(card.Front), card.ID)
				return nil
			})
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func setIfChanged(flags *pflag.FlagSet, name string, value *string, target **string) {
	if flags.Changed(name) {
		*target = value
	}
}

func newCardsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CARD_ID",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				if err := rt.svc.DeleteCard(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", args[0])
				return nil
			})
		},
	}
}

func parseHardnessList(values []string) ([]domain.HardnessLevel, error) {
	levels := make([]domain.HardnessLevel, 0, len(values))
	for _, v := range values {
		level, err := domain.ParseHardness(v)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}
