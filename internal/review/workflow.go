package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
)

var (
	// ErrNotPending is returned for actions on a draft that already left the
	// pending state.
	ErrNotPending = errors.New("draft is not pending")

	// ErrNothingSelected is returned by BulkApprove when no selected draft is
	// still pending.
	ErrNothingSelected = errors.New("no pending drafts selected")
)

// Filter is the status tab and book a review view is showing. Skip and
// Limit window the listing; a zero Limit lists every matching draft.
type Filter struct {
	BookID  string
	BatchID string
	Status  domain.DraftStatus
	Skip    int
	Limit   int
}

func (f Filter) draftFilter() domain.DraftFilter {
	status := f.Status
	if status == "" {
		status = domain.DraftPending
	}
	return domain.DraftFilter{BookID: f.BookID, BatchID: f.BatchID, Status: status, Skip: f.Skip, Limit: f.Limit}
}

// complete reports whether a listing covers every matching draft.
func (f Filter) complete() bool { return f.Skip == 0 && f.Limit == 0 }

// Workflow is safe for concurrent use.
type Workflow struct {
	svc      *api.Service
	observer *query.Observer[[]domain.DraftCard]
	logger   *slog.Logger

	mu       sync.Mutex
	filter   Filter
	order    []string
	pending  map[string]domain.DraftCard
	selected map[string]struct{}
	settled  map[string]domain.DraftStatus
}

// New returns a workflow showing pending drafts of every book.
func New(svc *api.Service, logger *slog.Logger) *Workflow {
	return &Workflow{
		svc:      svc,
		observer: query.NewObserver[[]domain.DraftCard](svc.Cache()),
		logger:   logging.NewComponentLogger(logger, "review"),
		filter:   Filter{Status: domain.DraftPending},
		pending:  make(map[string]domain.DraftCard),
		selected: make(map[string]struct{}),
		settled:  make(map[string]domain.DraftStatus),
	}
}

// Filter returns the current filter.
func (w *Workflow) Filter() Filter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter
}

// SetFilter switches the view. The selection is cleared even when the filter
// is unchanged; moving to another book also drops the pending working set.
func (w *Workflow) SetFilter(f Filter) {
	if f.Status == "" {
		f.Status = domain.DraftPending
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if f.BookID != w.filter.BookID {
		w.order = nil
		w.pending = make(map[string]domain.DraftCard)
	}
	w.filter = f
	clear(w.selected)
}

// Drafts lists drafts for the current filter. When the filter changes while
// the request is in flight the result is discarded with query.ErrSuperseded.
// A complete pending listing replaces the working set; a windowed one only
// adds to it.
func (w *Workflow) Drafts(ctx context.Context) ([]domain.DraftCard, error) {
	f := w.Filter()
	drafts, err := w.svc.ObserveDrafts(ctx, w.observer, f.draftFilter())
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filter != f {
		return nil, query.ErrSuperseded
	}
	visible := make([]domain.DraftCard, 0, len(drafts))
	for _, d := range drafts {
		if status, ok := w.settled[d.ID]; ok && status != d.Status {
			continue
		}
		visible = append(visible, d)
	}
	if f.draftFilter().Status == domain.DraftPending {
		if f.complete() {
			w.resetPending(visible)
		} else {
			for _, d := range visible {
				w.addPending(d)
			}
		}
	}
	return visible, nil
}

// resetPending replaces the working set and drops selections that are no
// longer pending. Callers hold w.mu.
func (w *Workflow) resetPending(drafts []domain.DraftCard) {
	w.order = w.order[:0]
	w.pending = make(map[string]domain.DraftCard, len(drafts))
	for _, d := range drafts {
		w.addPending(d)
	}
	for id := range w.selected {
		if _, ok := w.pending[id]; !ok {
			delete(w.selected, id)
		}
	}
}

func (w *Workflow) addPending(d domain.DraftCard) {
	if d.Status != domain.DraftPending {
		return
	}
	if _, ok := w.settled[d.ID]; ok {
		return
	}
	if _, ok := w.pending[d.ID]; !ok {
		w.order = append(w.order, d.ID)
	}
	w.pending[d.ID] = d
}

// settle records ids as moved to status and drops them from the working set.
// Callers hold w.mu.
func (w *Workflow) settle(status domain.DraftStatus, ids ...string) {
	for _, id := range ids {
		w.settled[id] = status
	}
	w.drop(ids...)
}

// drop removes ids from the working set and selection without recording an
// outcome, leaving the next listing to report where they ended up. Callers
// hold w.mu.
func (w *Workflow) drop(ids ...string) {
	for _, id := range ids {
		delete(w.pending, id)
		delete(w.selected, id)
	}
	kept := w.order[:0]
	for _, id := range w.order {
		if _, ok := w.pending[id]; ok {
			kept = append(kept, id)
		}
	}
	w.order = kept
}

// Pending returns the pending working set in listing order.
func (w *Workflow) Pending() []domain.DraftCard {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.DraftCard, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.pending[id])
	}
	return out
}

// GenerateNext asks the backend for the next batch from the book's reading
// cursor. New drafts join the working set when they belong to the book being
// viewed.
func (w *Workflow) GenerateNext(ctx context.Context, bookID string, numPages, numCards int) (domain.GenerationResult, error) {
	res, err := w.svc.GenerateNextBatch(ctx, domain.GenerateNextBatchRequest{BookID: bookID, NumPages: numPages, NumCards: numCards})
	if err != nil {
		return domain.GenerationResult{}, err
	}
	w.adopt(bookID, res.Drafts)
	return res, nil
}

// GenerateRange generates drafts from an explicit inclusive page span.
func (w *Workflow) GenerateRange(ctx context.Context, bookID string, start, end, numCards int) (domain.GenerationResult, error) {
	res, err := w.svc.GenerateFromRange(ctx, domain.GenerateFromRangeRequest{BookID: bookID, StartPage: start, EndPage: end, NumCards: numCards})
	if err != nil {
		return domain.GenerationResult{}, err
	}
	w.adopt(bookID, res.Drafts)
	return res, nil
}

func (w *Workflow) adopt(bookID string, drafts []domain.DraftCard) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filter.BookID != "" && w.filter.BookID != bookID {
		return
	}
	for _, d := range drafts {
		w.addPending(d)
	}
}

// Toggle flips the selection of a pending draft and reports whether it is
// now selected.
func (w *Workflow) Toggle(id string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[id]; !ok {
		return false, fmt.Errorf("select %s: %w", id, ErrNotPending)
	}
	if _, ok := w.selected[id]; ok {
		delete(w.selected, id)
		return false, nil
	}
	w.selected[id] = struct{}{}
	return true, nil
}

// SelectAllPending selects every draft in the working set and returns how
// many are selected.
func (w *Workflow) SelectAllPending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.order {
		w.selected[id] = struct{}{}
	}
	return len(w.selected)
}

// ClearSelection drops every selection.
func (w *Workflow) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.selected)
}

// Selected returns the selected ids in working-set order.
func (w *Workflow) Selected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedPendingLocked()
}

func (w *Workflow) selectedPendingLocked() []string {
	ids := make([]string, 0, len(w.selected))
	for _, id := range w.order {
		if _, ok := w.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// checkOpen refuses to move a draft this workflow already settled to status
// to. Edits pass DraftPending.
func (w *Workflow) checkOpen(id string, to domain.DraftStatus) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	status, ok := w.settled[id]
	if !ok {
		return nil
	}
	if to == domain.DraftPending {
		return fmt.Errorf("draft %s is %s: %w", id, status, ErrNotPending)
	}
	if err := domain.CheckTransition(status, to); err != nil {
		return fmt.Errorf("draft %s: %w: %w", id, ErrNotPending, err)
	}
	return nil
}

// Edit changes a pending draft's content. Its status is untouched.
func (w *Workflow) Edit(ctx context.Context, id string, update domain.DraftUpdate) (domain.DraftCard, error) {
	if err := w.checkOpen(id, domain.DraftPending); err != nil {
		return domain.DraftCard{}, err
	}
	draft, err := w.svc.UpdateDraft(ctx, id, update)
	if err != nil {
		return domain.DraftCard{}, err
	}
	w.mu.Lock()
	if _, ok := w.pending[id]; ok {
		w.pending[id] = draft
	}
	w.mu.Unlock()
	return draft, nil
}

// Approve turns one pending draft into a card, filed into deckID when set.
func (w *Workflow) Approve(ctx context.Context, id, deckID string) (domain.Card, error) {
	if err := w.checkOpen(id, domain.DraftApproved); err != nil {
		return domain.Card{}, err
	}
	card, err := w.svc.ApproveDraft(ctx, id, deckID)
	if err != nil {
		return domain.Card{}, err
	}
	w.mu.Lock()
	w.settle(domain.DraftApproved, id)
	w.mu.Unlock()
	return card, nil
}

// BulkApprove submits the selected drafts that are still pending as one
// request. The selection is empty afterwards whatever the outcome; the
// returned cards are what the backend actually created. When the backend
// skips some drafts, none of the submitted ids is recorded as approved and
// the next listing decides where each one belongs.
func (w *Workflow) BulkApprove(ctx context.Context, deckID string) ([]domain.Card, error) {
	w.mu.Lock()
	ids := w.selectedPendingLocked()
	clear(w.selected)
	w.mu.Unlock()

	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}
	cards, err := w.svc.BulkApproveDrafts(ctx, domain.BulkApproveRequest{DraftIDs: ids, DeckID: deckID})
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(cards) == len(ids) {
		w.settle(domain.DraftApproved, ids...)
		return cards, nil
	}
	w.drop(ids...)
	w.logger.Warn("bulk approve created fewer cards than requested",
		logging.Int("requested", len(ids)),
		logging.Int("created", len(cards)))
	return cards, nil
}

// Reject marks a pending draft rejected.
func (w *Workflow) Reject(ctx context.Context, id string) (domain.Message, error) {
	if err := w.checkOpen(id, domain.DraftRejected); err != nil {
		return domain.Message{}, err
	}
	msg, err := w.svc.RejectDraft(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}
	w.mu.Lock()
	w.settle(domain.DraftRejected, id)
	w.mu.Unlock()
	return msg, nil
}

// PurgeRejected deletes rejected drafts, for one book when bookID is set.
func (w *Workflow) PurgeRejected(ctx context.Context, bookID string) (domain.Message, error) {
	return w.svc.DeleteRejectedDrafts(ctx, bookID)
}
