package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/study"
)

const studyHelp = "Commands: f flip, n next, p previous, r LEVEL rate (easy|medium|hard|fail), q quit"

func newStudyCommand(ctx *commandContext) *cobra.Command {
	var mistakes bool

	cmd := &cobra.Command{
		Use:   "study DECK_ID",
		Short: "Walk through a deck one card at a time",
		Long: "Walk through a deck one card at a time.\n\n" +
			studyHelp + ".\n" +
			"The position in the deck is saved so the next session resumes there.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				deck, err := rt.svc.Deck(c, args[0])
				if err != nil {
					return err
				}
				cards := deck.Cards
				key := deck.ID
				if mistakes {
					cards = study.FilterByHardness(cards, domain.HardnessHard, domain.HardnessFail)
					key = deck.ID + "#mistakes"
				}
				sess, err := study.Start(c, key, cards, rt.store)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if sess.Len() == 0 {
					fmt.Fprintf(out, "%s has no cards to study\n", deck.Name)
					return nil
				}
				fmt.Fprintf(out, "Studying %s (%s)\n", deck.Name, pluralize(sess.Len(), "card", "cards"))
				if isInteractive(cmd.InOrStdin()) {
					fmt.Fprintln(out, studyHelp)
				}
				return runStudy(c, sess, rt.svc, cmd.InOrStdin(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&mistakes, "mistakes", false, "Only study cards rated hard or fail")
	return cmd
}

func runStudy(ctx context.Context, sess *study.Session, rater study.CardRater, in io.Reader, out io.Writer) error {
	printSide(out, sess)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "f", "flip":
			sess.Flip()
		case "n", "next":
			if err := sess.Next(ctx); err != nil {
				return err
			}
		case "p", "prev", "previous":
			if err := sess.Previous(ctx); err != nil {
				return err
			}
		case "r", "rate":
			if len(fields) < 2 {
				fmt.Fprintln(out, "rate needs a level: easy, medium, hard or fail")
				continue
			}
			level, err := domain.ParseHardness(fields[1])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if _, err := sess.Rate(ctx, rater, level); err != nil {
				return err
			}
			fmt.Fprintf(out, "Rated %s\n", level)
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintln(out, studyHelp)
			continue
		}
		printSide(out, sess)
	}
	return scanner.Err()
}

func printSide(out io.Writer, sess *study.Session) {
	side, ok := sess.Current()
	if !ok {
		return
	}
	label := "front"
	if side.Flipped {
		label = "back"
	}
	fmt.Fprintf(out, "[%d/%d %s] %s\n", side.Index+1, side.Total, label, side.Text)
	if side.Example != "" {
		fmt.Fprintf(out, "    %s\n", side.Example)
	}
}
