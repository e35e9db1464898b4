package fakeapi

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amirgolp/flashcard/internal/domain"
)

func (s *Server) listDecks(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Deck, 0, len(acct.deckOrder))
	for _, id := range acct.deckOrder {
		out = append(out, acct.renderDeck(acct.decks[id]))
	}
	writeJSON(w, http.StatusOK, window(out, queryInt(r, "skip", 0), queryInt(r, "limit", defaultListLimit)))
}

func (s *Server) getDeck(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	deck, ok := acct.decks[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Deck not found")
		return
	}
	writeJSON(w, http.StatusOK, acct.renderDeck(deck))
}

func (s *Server) createDeck(w http.ResponseWriter, r *http.Request) {
	var in domain.DeckCreate
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeMissing(w, "name")
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !acct.knownCards(in.CardIDs) {
		writeDetail(w, http.StatusNotFound, "Card not found")
		return
	}
	rec := &deckRecord{
		Deck:    domain.Deck{ID: uuid.NewString(), Name: in.Name, Description: in.Description},
		cardIDs: slices.Clone(in.CardIDs),
	}
	acct.decks[rec.ID] = rec
	acct.deckOrder = append(acct.deckOrder, rec.ID)
	writeJSON(w, http.StatusCreated, acct.renderDeck(rec))
}

func (s *Server) updateDeck(w http.ResponseWriter, r *http.Request) {
	var in domain.DeckUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := acct.decks[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Deck not found")
		return
	}
	if in.CardIDs != nil && !acct.knownCards(*in.CardIDs) {
		writeDetail(w, http.StatusNotFound, "Card not found")
		return
	}
	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.CardIDs != nil {
		rec.cardIDs = slices.Clone(*in.CardIDs)
	}
	writeJSON(w, http.StatusOK, acct.renderDeck(rec))
}

func (s *Server) deleteDeck(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := acct.decks[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Deck not found")
		return
	}
	delete(acct.decks, id)
	acct.deckOrder = slices.DeleteFunc(acct.deckOrder, func(v string) bool { return v == id })
	w.WriteHeader(http.StatusNoContent)
}

func (a *account) knownCards(ids []string) bool {
	for _, id := range ids {
		if _, ok := a.cards[id]; !ok {
			return false
		}
	}
	return true
}
