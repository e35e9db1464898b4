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
	generatePath = "/generate"
	draftsPath   = generatePath + "/drafts/"
)

// GenerateNextBatch continues generation from the book's reading cursor.
func (c *Client) GenerateNextBatch(ctx context.Context, in domain.GenerateNextBatchRequest) (domain.GenerationResult, error) {
	var result domain.GenerationResult
	if err := c.doJSON(ctx, http.MethodPost, generatePath+"/next-batch", nil, in, &result); err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate next batch: %w", err)
	}
	return result, nil
}

// GenerateFromRange generates drafts from an explicit page span.
func (c *Client) GenerateFromRange(ctx context.Context, in domain.GenerateFromRangeRequest) (domain.GenerationResult, error) {
	var result domain.GenerationResult
	if err := c.doJSON(ctx, http.MethodPost, generatePath+"/from-range", nil, in, &result); err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate from range: %w", err)
	}
	return result, nil
}

// ListDrafts returns drafts matching the filter.
func (c *Client) ListDrafts(ctx context.Context, filter domain.DraftFilter) ([]domain.DraftCard, error) {
	q := url.Values{}
	if filter.BookID != "" {
		q.Set("book_id", filter.BookID)
	}
	if filter.BatchID != "" {
		q.Set("batch_id", filter.BatchID)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var drafts []domain.DraftCard
	if err := c.doJSON(ctx, http.MethodGet, generatePath+"/drafts", q, nil, &drafts); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}

// UpdateDraft edits a draft's content.
func (c *Client) UpdateDraft(ctx context.Context, id string, in domain.DraftUpdate) (domain.DraftCard, error) {
	var draft domain.DraftCard
	if err := c.doJSON(ctx, http.MethodPut, itemPath(draftsPath, id), nil, in, &draft); err != nil {
		return domain.DraftCard{}, fmt.Errorf("update draft %s: %w", id, err)
	}
	return draft, nil
}

// ApproveDraft converts a draft into a card, adding it to deckID when set.
func (c *Client) ApproveDraft(ctx context.Context, id, deckID string) (domain.Card, error) {
	var q url.Values
	if deckID != "" {
		q = url.Values{"deck_id": {deckID}}
	}
	var card domain.Card
	if err := c.doJSON(ctx, http.MethodPost, itemPath(draftsPath, id)+"/approve", q, nil, &card); err != nil {
		return domain.Card{}, fmt.Errorf("approve draft %s: %w", id, err)
	}
	return card, nil
}

// BulkApproveDrafts approves several drafts and returns the created cards.
func (c *Client) BulkApproveDrafts(ctx context.Context, in domain.BulkApproveRequest) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.doJSON(ctx, http.MethodPost, draftsPath+"bulk-approve", nil, in, &cards); err != nil {
		return nil, fmt.Errorf("bulk approve drafts: %w", err)
	}
	return cards, nil
}

func (c *Client) RejectDraft(ctx context.Context, id string) (domain.Message, error) {
	var msg domain.Message
	if err := c.doJSON(ctx, http.MethodPost, itemPath(draftsPath, id)+"/reject", nil, nil, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("reject draft %s: %w", id, err)
	}
	return msg, nil
}

// DeleteRejectedDrafts purges rejected drafts, limited to one book when
// bookID is set.
func (c *Client) DeleteRejectedDrafts(ctx context.Context, bookID string) (domain.Message, error) {
	var q url.Values
	if bookID != "" {
		q = url.Values{"book_id": {bookID}}
	}
	var msg domain.Message
	if err := c.doJSON(ctx, http.MethodDelete, draftsPath+"rejected", q, nil, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("delete rejected drafts: %w", err)
	}
	return msg, nil
}
