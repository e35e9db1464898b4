package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amirgolp/flashcard/internal/domain"
)

const decksPath = "/decks/"

// ListDecks returns one page of the user's decks.
func (c *Client) ListDecks(ctx context.Context, page Page) ([]domain.Deck, error) {
	var decks []domain.Deck
	if err := c.doJSON(ctx, http.MethodGet, decksPath, page.values(), nil, &decks); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// GetDeck fetches a deck with its cards.
func (c *Client) GetDeck(ctx context.Context, id string) (domain.Deck, error) {
	var deck domain.Deck
	if err := c.doJSON(ctx, http.MethodGet, itemPath(decksPath, id), nil, nil, &deck); err != nil {
		return domain.Deck{}, fmt.Errorf("get deck %s: %w", id, err)
	}
	return deck, nil
}

func (c *Client) CreateDeck(ctx context.Context, in domain.DeckCreate) (domain.Deck, error) {
	var deck domain.Deck
	if err := c.doJSON(ctx, http.MethodPost, decksPath, nil, in, &deck); err != nil {
		return domain.Deck{}, fmt.Errorf("create deck: %w", err)
	}
	return deck, nil
}

func (c *Client) UpdateDeck(ctx context.Context, id string, in domain.DeckUpdate) (domain.Deck, error) {
	var deck domain.Deck
	if err := c.doJSON(ctx, http.MethodPut, itemPath(decksPath, id), nil, in, &deck); err != nil {
		return domain.Deck{}, fmt.Errorf("update deck %s: %w", id, err)
	}
	return deck, nil
}

func (c *Client) DeleteDeck(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath(decksPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete deck %s: %w", id, err)
	}
	return nil
}
