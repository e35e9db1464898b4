package api

import (
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/textutil"
)

// FilterDecks keeps decks whose name contains s, ignoring case. An empty s
// returns decks unchanged.
func FilterDecks(decks []domain.Deck, s string) []domain.Deck {
	return filter(decks, s, func(d domain.Deck) []string { return []string{d.Name} })
}

// FilterCards matches s against the front and back of each card.
func FilterCards(cards []domain.Card, s string) []domain.Card {
	return filter(cards, s, func(c domain.Card) []string { return []string{c.Front, c.Back} })
}

// FilterBooks matches s against book titles.
func FilterBooks(books []domain.Book, s string) []domain.Book {
	return filter(books, s, func(b domain.Book) []string { return []string{b.Title} })
}

func filter[T any](items []T, s string, fields func(T) []string) []T {
	m := textutil.NewMatcher(s)
	if m.Empty() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m.Match(fields(item)...) {
			out = append(out, item)
		}
	}
	return out
}
