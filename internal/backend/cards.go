package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amirgolp/flashcard/internal/domain"
)

const (
	cardsPath       = "/cards/"
	searchCardsPath = "/search/cards"
)

// ListCards returns one page of the user's cards.
func (c *Client) ListCards(ctx context.Context, page Page) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.doJSON(ctx, http.MethodGet, cardsPath, page.values(), nil, &cards); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id string) (domain.Card, error) {
	var card domain.Card
	if err := c.doJSON(ctx, http.MethodGet, itemPath(cardsPath, id), nil, nil, &card); err != nil {
		return domain.Card{}, fmt.Errorf("get card %s: %w", id, err)
	}
	return card, nil
}

func (c *Client) CreateCard(ctx context.Context, in domain.CardCreate) (domain.Card, error) {
	var card domain.Card
	if err := c.doJSON(ctx, http.MethodPost, cardsPath, nil, in, &card); err != nil {
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}
	return card, nil
}

func (c *Client) UpdateCard(ctx context.Context, id string, in domain.CardUpdate) (domain.Card, error) {
	var card domain.Card
	if err := c.doJSON(ctx, http.MethodPut, itemPath(cardsPath, id), nil, in, &card); err != nil {
		return domain.Card{}, fmt.Errorf("update card %s: %w", id, err)
	}
	return card, nil
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath(cardsPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

// SearchCards fetches one page of search results. An empty cursor requests
// the first page.
func (c *Client) SearchCards(ctx context.Context, query, cursor string, limit int) (domain.SearchPage, error) {
	q := url.Values{}
	q.Set("query", query)
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var page domain.SearchPage
	if err := c.doJSON(ctx, http.MethodGet, searchCardsPath, q, nil, &page); err != nil {
		return domain.SearchPage{}, fmt.Errorf("search cards: %w", err)
	}
	return page, nil
}
