package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
)

// Card content edits also change deck contents and search results.
var cardFamilies = []query.Family{query.FamilyCards, query.FamilyDecks, query.FamilySearchCards}

// CardsKey is the cache key of the card list.
func CardsKey() query.Key { return query.NewKey(query.FamilyCards, "list") }

// CardKey is the cache key of one card.
func CardKey(id string) query.Key { return query.NewKey(query.FamilyCards, "item", id) }

// SearchKey is the cache key of one search page.
func SearchKey(q, cursor string, limit int) query.Key {
	return query.NewKey(query.FamilySearchCards, q, cursor, limit)
}

// Cards lists the user's cards.
func (s *Service) Cards(ctx context.Context) ([]domain.Card, error) {
	cards, err := query.Fetch(ctx, s.cache, CardsKey(), func(ctx context.Context) ([]domain.Card, error) {
		return s.backend.ListCards(ctx, s.page())
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// Card fetches one card.
func (s *Service) Card(ctx context.Context, id string) (domain.Card, error) {
	card, err := query.Fetch(ctx, s.cache, CardKey(id), func(ctx context.Context) (domain.Card, error) {
		return s.backend.GetCard(ctx, id)
	})
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// CreateCard validates and creates a card. A missing hardness level is
// sent as the default.
func (s *Service) CreateCard(ctx context.Context, in domain.CardCreate) (domain.Card, error) {
	if in.HardnessLevel == "" {
		in.HardnessLevel = domain.DefaultHardness
	}
	if err := domain.Validate(in); err != nil {
		return domain.Card{}, err
	}
	card, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Card, error) {
		return s.backend.CreateCard(ctx, in)
	}, cardFamilies...)
	if err != nil {
		return domain.Card{}, err
	}
	s.logger.Info("card created", logging.CardID(card.ID))
	return card, nil
}

// UpdateCard applies a partial update.
func (s *Service) UpdateCard(ctx context.Context, id string, in domain.CardUpdate) (domain.Card, error) {
	if in.Empty() {
		return domain.Card{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if err := domain.Validate(in); err != nil {
		return domain.Card{}, err
	}
	card, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Card, error) {
		return s.backend.UpdateCard(ctx, id, in)
	}, cardFamilies...)
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// DeleteCard removes a card.
func (s *Service) DeleteCard(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.backend.DeleteCard(ctx, id)
	}, cardFamilies...)
	if err != nil {
		return err
	}
	s.logger.Info("card deleted", logging.CardID(id))
	return nil
}

// SearchCards fetches one page of server-side search results. A blank query
// never reaches the backend and yields an empty, final page.
func (s *Service) SearchCards(ctx context.Context, q, cursor string, limit int) (domain.SearchPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return domain.SearchPage{}, nil
	}
	page, err := query.Fetch(ctx, s.cache, SearchKey(q, cursor, limit), func(ctx context.Context) (domain.SearchPage, error) {
		return s.backend.SearchCards(ctx, q, cursor, limit)
	})
	if err != nil {
		return domain.SearchPage{}, err
	}
	return page, nil
}
