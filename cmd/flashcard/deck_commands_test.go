package main

import (
	"errors"
	"testing"

	"github.com/amirgolp/flashcard/internal/domain"
)

func TestDeckLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	var deck domain.Deck
	env.mustRunJSON(t, &deck, "decks", "create", "Animals", "-d", "Tiere")
	if deck.ID == "" || deck.Name != "Animals" {
		t.Fatalf("unexpected deck %+v", deck)
	}
	env.mustRun(t, "decks", "create", "Food")

	var card domain.Card
	env.mustRunJSON(t, &card, "cards", "create", "--front", "Hund", "--back", "dog", "--deck", deck.ID)
	if card.HardnessLevel != domain.HardnessMedium {
		t.Fatalf("expected default hardness, got %q", card.HardnessLevel)
	}

	out := env.mustRun(t, "decks", "show", deck.ID)
	requireContains(t, out, "== Animals ==")
	requireContains(t, out, "Hund")

	out = env.mustRun(t, "decks", "list", "--filter", "ANI")
	requireContains(t, out, "Animals")
	requireNotContains(t, out, "Food")
	requireContains(t, env.mustRun(t, "decks", "list", "--filter", "zebra"), "No decks")

	requireContains(t, env.mustRun(t, "decks", "remove-card", deck.ID, card.ID), "now has 0 cards")
	requireContains(t, env.mustRun(t, "decks", "add-card", deck.ID, card.ID), "now has 1 card")

	requireContains(t, env.mustRun(t, "decks", "update", deck.ID, "--name", "Tiere"), "Updated deck Tiere")
	if _, err := env.run(t, "decks", "update", deck.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	env.mustRun(t, "decks", "delete", deck.ID)
	out = env.mustRun(t, "decks", "list")
	requireNotContains(t, out, "Tiere")
	requireContains(t, out, "Food")

	// Cards survive deck deletion.
	requireContains(t, env.mustRun(t, "cards", "show", card.ID), "== Hund ==")
}

func TestCardUpdateAndHardnessFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	hund := env.srv.SeedCard(testUser, domain.Card{Front: "Hund", Back: "dog"})
	env.srv.SeedCard(testUser, domain.Card{Front: "Katze", Back: "cat", HardnessLevel: domain.HardnessEasy})

	out := env.mustRun(t, "cards", "update", hund.ID, "--hardness", "HARD", "--notes", "der Hund")
	requireContains(t, out, "Updated card Hund")

	out = env.mustRun(t, "cards", "list", "--hardness", "hard")
	requireContains(t, out, "Hund")
	requireNotContains(t, out, "Katze")

	out = env.mustRun(t, "cards", "show", hund.ID)
	requireContains(t, out, "der Hund")

	if _, err := env.run(t, "cards", "update", hund.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}
	if _, err := env.run(t, "cards", "update", hund.ID, "--hardness", "trivial"); !errors.Is(err, domain.ErrInvalidHardness) {
		t.Fatalf("expected invalid hardness, got %v", err)
	}

	env.mustRun(t, "cards", "delete", hund.ID)
	requireNotContains(t, env.mustRun(t, "cards", "list"), "Hund")
}

func TestCardsSearch(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	for _, c := range []domain.Card{
		{Front: "Hund", Back: "dog"},
		{Front: "Hundehütte", Back: "kennel"},
		{Front: "Hundeleine", Back: "leash"},
		{Front: "Katze", Back: "cat"},
	} {
		env.srv.SeedCard(testUser, c)
	}

	var cards []domain.Card
	env.mustRunJSON(t, &cards, "cards", "search", "hund", "--all", "--limit", "2")
	if len(cards) != 3 {
		t.Fatalf("expected 3 matches across pages, got %d", len(cards))
	}

	out := env.mustRun(t, "cards", "search", "hund", "--limit", "2")
	requireContains(t, out, "More results available (fetched 1 page)")

	requireContains(t, env.mustRun(t, "cards", "search", "zebra"), `No cards match "zebra"`)

	if _, err := env.run(t, "cards", "search"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error without a query, got %v", err)
	}
}

func TestCardsSearchInteractive(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	env.srv.SeedCard(testUser, domain.Card{Front: "Hund", Back: "dog"})
	env.srv.SeedCard(testUser, domain.Card{Front: "Katze", Back: "cat"})

	out, err := env.runWithInput(t, "h\nhu\nhund\n", "cards", "search", "--interactive")
	if err != nil {
		t.Fatalf("interactive search: %v", err)
	}
	requireContains(t, out, "> hund (1 result)")
	requireContains(t, out, "Hund = dog")
}
