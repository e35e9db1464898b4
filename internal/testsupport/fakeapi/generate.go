package fakeapi

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amirgolp/flashcard/internal/domain"
)

const (
	defaultGeneratePages = 10
	defaultGenerateCards = 20
)

func (s *Server) generateNext(w http.ResponseWriter, r *http.Request) {
	var in domain.GenerateNextBatchRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if in.BookID == "" {
		writeMissing(w, "book_id")
		return
	}
	if in.NumPages <= 0 {
		in.NumPages = defaultGeneratePages
	}
	if in.NumCards <= 0 {
		in.NumCards = defaultGenerateCards
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := acct.books[in.BookID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	progress := acct.progress[in.BookID]
	start := progress.CurrentPage
	if start > book.TotalPages {
		writeDetail(w, http.StatusBadRequest, "All pages have been processed")
		return
	}
	end := min(start+in.NumPages-1, book.TotalPages)
	res := s.generate(acct, book, domain.PageRange{Start: start, End: end}, in.NumCards)
	progress.CurrentPage = end + 1
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) generateRange(w http.ResponseWriter, r *http.Request) {
	var in domain.GenerateFromRangeRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if in.BookID == "" {
		writeMissing(w, "book_id")
		return
	}
	if in.NumCards <= 0 {
		in.NumCards = defaultGenerateCards
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := acct.books[in.BookID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if in.StartPage < 1 || in.EndPage < in.StartPage || in.EndPage > book.TotalPages {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Invalid page range (book has %d pages)", book.TotalPages))
		return
	}
	res := s.generate(acct, book, domain.PageRange{Start: in.StartPage, End: in.EndPage}, in.NumCards)
	writeJSON(w, http.StatusOK, res)
}

// generate creates numCards pending drafts. Callers hold s.mu.
func (s *Server) generate(acct *account, book *domain.Book, pages domain.PageRange, numCards int) domain.GenerationResult {
	batchID := uuid.NewString()
	now := s.now().UTC()
	drafts := make([]domain.DraftCard, 0, numCards)
	for i := 0; i < numCards; i++ {
		word := s.vocabulary[acct.vocabNext%len(s.vocabulary)]
		acct.vocabNext++
		start, end := pages.Start, pages.End
		d := &domain.DraftCard{
			ID:                uuid.NewString(),
			Front:             word.Front,
			Back:              word.Back,
			PartOfSpeech:      word.POS,
			Status:            domain.DraftPending,
			BookID:            book.ID,
			SourcePageStart:   &start,
			SourcePageEnd:     &end,
			GenerationBatchID: batchID,
			DateCreated:       now,
		}
		acct.drafts[d.ID] = d
		acct.draftSeq = append(acct.draftSeq, d.ID)
		drafts = append(drafts, *d)
	}
	progress := acct.progress[book.ID]
	progress.PagesProcessed = append(progress.PagesProcessed, pages)
	progress.LastEdited = now
	return domain.GenerationResult{
		BatchID:        batchID,
		Drafts:         drafts,
		PagesProcessed: pages,
		Message:        fmt.Sprintf("Generated %d draft cards from pages %d-%d", len(drafts), pages.Start, pages.End),
	}
}

func (s *Server) listDrafts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := domain.DraftPending
	if raw := q.Get("status"); raw != "" {
		parsed, err := domain.ParseDraftStatus(raw)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid status")
			return
		}
		status = parsed
	}
	bookID, batchID := q.Get("book_id"), q.Get("batch_id")

	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DraftCard
	for _, id := range acct.draftSeq {
		d := acct.drafts[id]
		if d.Status != status {
			continue
		}
		if bookID != "" && d.BookID != bookID {
			continue
		}
		if batchID != "" && d.GenerationBatchID != batchID {
			continue
		}
		out = append(out, *d)
	}
	writeJSON(w, http.StatusOK, window(out, queryInt(r, "skip", 0), queryInt(r, "limit", defaultDraftLimit)))
}

func (s *Server) updateDraft(w http.ResponseWriter, r *http.Request) {
	var in domain.DraftUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := acct.drafts[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Draft not found")
		return
	}
	if d.Status != domain.DraftPending {
		writeDetail(w, http.StatusBadRequest, "Only pending drafts can be edited")
		return
	}
	applyString(&d.Front, in.Front)
	applyString(&d.Back, in.Back)
	applyString(&d.PartOfSpeech, in.PartOfSpeech)
	applyString(&d.Gender, in.Gender)
	applyString(&d.PluralForm, in.PluralForm)
	applyString(&d.Pronunciation, in.Pronunciation)
	applyString(&d.Notes, in.Notes)
	applySlice(&d.Examples, in.Examples)
	applySlice(&d.Synonyms, in.Synonyms)
	applySlice(&d.Antonyms, in.Antonyms)
	applySlice(&d.Tags, in.Tags)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) approveDraft(w http.ResponseWriter, r *http.Request) {
	deckID := r.URL.Query().Get("deck_id")
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := acct.drafts[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Draft not found")
		return
	}
	if d.Status != domain.DraftPending {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Draft already %s", d.Status))
		return
	}
	if deckID != "" {
		if _, ok := acct.decks[deckID]; !ok {
			writeDetail(w, http.StatusNotFound, "Deck not found")
			return
		}
	}
	writeJSON(w, http.StatusOK, s.approve(acct, d, deckID))
}

func (s *Server) bulkApprove(w http.ResponseWriter, r *http.Request) {
	var in domain.BulkApproveRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if len(in.DraftIDs) == 0 {
		writeMissing(w, "draft_ids")
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.DeckID != "" {
		if _, ok := acct.decks[in.DeckID]; !ok {
			writeDetail(w, http.StatusNotFound, "Deck not found")
			return
		}
	}
	cards := make([]domain.Card, 0, len(in.DraftIDs))
	for _, id := range in.DraftIDs {
		d, ok := acct.drafts[id]
		if !ok || d.Status != domain.DraftPending {
			continue
		}
		cards = append(cards, s.approve(acct, d, in.DeckID))
	}
	writeJSON(w, http.StatusOK, cards)
}

// approve converts a pending draft into a card. Callers hold s.mu.
func (s *Server) approve(acct *account, d *domain.DraftCard, deckID string) domain.Card {
	now := s.now().UTC()
	card := &domain.Card{
		ID:            uuid.NewString(),
		Front:         d.Front,
		Back:          d.Back,
		Examples:      d.Examples,
		Synonyms:      d.Synonyms,
		Antonyms:      d.Antonyms,
		PartOfSpeech:  d.PartOfSpeech,
		Gender:        d.Gender,
		PluralForm:    d.PluralForm,
		Pronunciation: d.Pronunciation,
		Notes:         d.Notes,
		Tags:          d.Tags,
		HardnessLevel: domain.DefaultHardness,
		DateCreated:   now,
		LastEdited:    now,
		SourceBookID:  d.BookID,
		SourcePage:    d.SourcePageStart,
	}
	acct.putCard(card)
	if deck, ok := acct.decks[deckID]; ok {
		deck.cardIDs = append(deck.cardIDs, card.ID)
	}
	d.Status = domain.DraftApproved
	return *card
}

func (s *Server) rejectDraft(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := acct.drafts[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Draft not found")
		return
	}
	if d.Status != domain.DraftPending {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Draft already %s", d.Status))
		return
	}
	d.Status = domain.DraftRejected
	writeJSON(w, http.StatusOK, domain.Message{Detail: "Draft rejected"})
}

func (s *Server) purgeRejected(w http.ResponseWriter, r *http.Request) {
	bookID := r.URL.Query().Get("book_id")
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, id := range slices.Clone(acct.draftSeq) {
		d := acct.drafts[id]
		if d.Status != domain.DraftRejected || (bookID != "" && d.BookID != bookID) {
			continue
		}
		acct.dropDraft(id)
		deleted++
	}
	writeJSON(w, http.StatusOK, domain.Message{Detail: fmt.Sprintf("Deleted %d rejected drafts", deleted)})
}

func (a *account) dropDraft(id string) {
	delete(a.drafts, id)
	a.draftSeq = slices.DeleteFunc(a.draftSeq, func(v string) bool { return v == id })
}
