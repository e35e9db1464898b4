package api

import (
	"context"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
)

// draftPageSize is the page size used when a filter asks for every draft.
const draftPageSize = 100

var (
	generateFamilies = []query.Family{query.FamilyDrafts, query.FamilyBookProgress}
	approveFamilies  = []query.Family{query.FamilyDrafts, query.FamilyCards, query.FamilySearchCards, query.FamilyDecks}
)

// DraftsKey is the cache key of a draft listing.
func DraftsKey(f domain.DraftFilter) query.Key {
	return query.NewKey(query.FamilyDrafts, f.BookID, f.BatchID, f.Status, f.Skip, f.Limit)
}

// Drafts lists drafts matching the filter. A zero Limit pages through every
// matching draft from Skip onward.
func (s *Service) Drafts(ctx context.Context, filter domain.DraftFilter) ([]domain.DraftCard, error) {
	drafts, err := query.Fetch(ctx, s.cache, DraftsKey(filter), s.draftLoader(filter))
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

func (s *Service) draftLoader(filter domain.DraftFilter) func(context.Context) ([]domain.DraftCard, error) {
	return func(ctx context.Context) ([]domain.DraftCard, error) {
		if filter.Limit > 0 {
			return s.backend.ListDrafts(ctx, filter)
		}
		return s.listAllDrafts(ctx, filter)
	}
}

func (s *Service) listAllDrafts(ctx context.Context, filter domain.DraftFilter) ([]domain.DraftCard, error) {
	page := filter
	page.Limit = draftPageSize
	var all []domain.DraftCard
	for {
		drafts, err := s.backend.ListDrafts(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, drafts...)
		if len(drafts) < draftPageSize {
			return all, nil
		}
		page.Skip += len(drafts)
	}
}

// ObserveDrafts loads drafts through an observer so a response for a filter
// the view has already left is discarded.
func (s *Service) ObserveDrafts(ctx context.Context, obs *query.Observer[[]domain.DraftCard], filter domain.DraftFilter) ([]domain.DraftCard, error) {
	drafts, err := obs.Load(ctx, DraftsKey(filter), s.draftLoader(filter))
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// GenerateNextBatch generates drafts from the book's reading cursor onward.
func (s *Service) GenerateNextBatch(ctx context.Context, in domain.GenerateNextBatchRequest) (domain.GenerationResult, error) {
	if err := domain.Validate(in); err != nil {
		return domain.GenerationResult{}, err
	}
	res, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.GenerationResult, error) {
		return s.backend.GenerateNextBatch(ctx, in)
	}, generateFamilies...)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	s.logGeneration(in.BookID, res)
	return res, nil
}

// GenerateFromRange generates drafts from an explicit page span.
func (s *Service) GenerateFromRange(ctx context.Context, in domain.GenerateFromRangeRequest) (domain.GenerationResult, error) {
	if err := domain.Validate(in); err != nil {
		return domain.GenerationResult{}, err
	}
	res, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.GenerationResult, error) {
		return s.backend.GenerateFromRange(ctx, in)
	}, generateFamilies...)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	s.logGeneration(in.BookID, res)
	return res, nil
}

func (s *Service) logGeneration(bookID string, res domain.GenerationResult) {
	s.logger.Info("drafts generated",
		logging.BookID(bookID),
		logging.BatchID(res.BatchID),
		logging.Int("drafts", len(res.Drafts)),
		logging.Int("page_start", res.PagesProcessed.Start),
		logging.Int("page_end", res.PagesProcessed.End))
}

// UpdateDraft edits a draft's content.
func (s *Service) UpdateDraft(ctx context.Context, id string, in domain.DraftUpdate) (domain.DraftCard, error) {
	if err := domain.Validate(in); err != nil {
		return domain.DraftCard{}, err
	}
	draft, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.DraftCard, error) {
		return s.backend.UpdateDraft(ctx, id, in)
	}, query.FamilyDrafts)
	if err != nil {
		return domain.DraftCard{}, err
	}
	return draft, nil
}

// ApproveDraft turns a pending draft into a card, optionally filed into a deck.
func (s *Service) ApproveDraft(ctx context.Context, id, deckID string) (domain.Card, error) {
	card, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Card, error) {
		return s.backend.ApproveDraft(ctx, id, deckID)
	}, approveFamilies...)
	if err != nil {
		return domain.Card{}, err
	}
	s.logger.Info("draft approved", logging.DraftID(id), logging.CardID(card.ID))
	return card, nil
}

// BulkApproveDrafts approves several drafts in one request.
func (s *Service) BulkApproveDrafts(ctx context.Context, in domain.BulkApproveRequest) ([]domain.Card, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	cards, err := query.Mutate(ctx, s.cache, func(ctx context.Context) ([]domain.Card, error) {
		return s.backend.BulkApproveDrafts(ctx, in)
	}, approveFamilies...)
	if err != nil {
		return nil, err
	}
	s.logger.Info("drafts approved", logging.Int("requested", len(in.DraftIDs)), logging.Int("created", len(cards)))
	return cards, nil
}

// RejectDraft marks a pending draft rejected.
func (s *Service) RejectDraft(ctx context.Context, id string) (domain.Message, error) {
	msg, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Message, error) {
		return s.backend.RejectDraft(ctx, id)
	}, query.FamilyDrafts)
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// DeleteRejectedDrafts purges rejected drafts, for one book when bookID is set.
func (s *Service) DeleteRejectedDrafts(ctx context.Context, bookID string) (domain.Message, error) {
	msg, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Message, error) {
		return s.backend.DeleteRejectedDrafts(ctx, bookID)
	}, query.FamilyDrafts)
	if err != nil {
		return domain.Message{}, err
	}
	s.logger.Info("rejected drafts purged", logging.BookID(bookID), logging.String("detail", msg.Text()))
	return msg, nil
}
