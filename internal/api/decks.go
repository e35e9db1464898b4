package api

import (
	"context"
	"slices"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
)

// DecksKey is the cache key of the deck list.
func DecksKey() query.Key { return query.NewKey(query.FamilyDecks, "list") }

// DeckKey is the cache key of one deck.
func DeckKey(id string) query.Key { return query.NewKey(query.FamilyDecks, "item", id) }

// Decks lists the user's decks.
func (s *Service) Decks(ctx context.Context) ([]domain.Deck, error) {
	decks, err := query.Fetch(ctx, s.cache, DecksKey(), func(ctx context.Context) ([]domain.Deck, error) {
		return s.backend.ListDecks(ctx, s.page())
	})
	if err != nil {
		return nil, err
	}
	return decks, nil
}

// Deck fetches one deck with its cards.
func (s *Service) Deck(ctx context.Context, id string) (domain.Deck, error) {
	deck, err := query.Fetch(ctx, s.cache, DeckKey(id), func(ctx context.Context) (domain.Deck, error) {
		return s.backend.GetDeck(ctx, id)
	})
	if err != nil {
		return domain.Deck{}, err
	}
	return deck, nil
}

// CreateDeck validates and creates a deck.
func (s *Service) CreateDeck(ctx context.Context, in domain.DeckCreate) (domain.Deck, error) {
	if err := domain.Validate(in); err != nil {
		return domain.Deck{}, err
	}
	deck, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Deck, error) {
		return s.backend.CreateDeck(ctx, in)
	}, query.FamilyDecks)
	if err != nil {
		return domain.Deck{}, err
	}
	s.logger.Info("deck created", logging.DeckID(deck.ID), logging.String("name", deck.Name))
	return deck, nil
}

// UpdateDeck applies a partial update.
func (s *Service) UpdateDeck(ctx context.Context, id string, in domain.DeckUpdate) (domain.Deck, error) {
	if err := domain.Validate(in); err != nil {
		return domain.Deck{}, err
	}
	deck, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Deck, error) {
		return s.backend.UpdateDeck(ctx, id, in)
	}, query.FamilyDecks)
	if err != nil {
		return domain.Deck{}, err
	}
	return deck, nil
}

// DeleteDeck removes a deck. Its cards are kept.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.backend.DeleteDeck(ctx, id)
	}, query.FamilyDecks)
	if err != nil {
		return err
	}
	s.logger.Info("deck deleted", logging.DeckID(id))
	return nil
}

// AddCardToDeck appends a card to a deck. Adding a card already in the deck
// is a no-op.
func (s *Service) AddCardToDeck(ctx context.Context, deckID, cardID string) (domain.Deck, error) {
	deck, err := s.freshDeck(ctx, deckID)
	if err != nil {
		return domain.Deck{}, err
	}
	ids := deck.CardIDs()
	if slices.Contains(ids, cardID) {
		return deck, nil
	}
	ids = append(ids, cardID)
	return s.UpdateDeck(ctx, deckID, domain.DeckUpdate{CardIDs: &ids})
}

// RemoveCardFromDeck drops a card from a deck without deleting the card.
func (s *Service) RemoveCardFromDeck(ctx context.Context, deckID, cardID string) (domain.Deck, error) {
	deck, err := s.freshDeck(ctx, deckID)
	if err != nil {
		return domain.Deck{}, err
	}
	ids := deck.CardIDs()
	idx := slices.Index(ids, cardID)
	if idx < 0 {
		return deck, nil
	}
	ids = slices.Delete(ids, idx, idx+1)
	return s.UpdateDeck(ctx, deckID, domain.DeckUpdate{CardIDs: &ids})
}

// freshDeck bypasses the cache: membership edits replace the whole card list.
func (s *Service) freshDeck(ctx context.Context, id string) (domain.Deck, error) {
	deck, err := s.backend.GetDeck(ctx, id)
	if err != nil {
		return domain.Deck{}, err
	}
	return deck, nil
}
