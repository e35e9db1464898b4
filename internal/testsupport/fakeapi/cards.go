package fakeapi

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amirgolp/flashcard/internal/domain"
)

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Card, 0, len(acct.cardOrder))
	for _, id := range acct.cardOrder {
		out = append(out, *acct.cards[id])
	}
	writeJSON(w, http.StatusOK, window(out, queryInt(r, "skip", 0), queryInt(r, "limit", defaultListLimit)))
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := acct.cards[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Card not found")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	var in domain.CardCreate
	if !decodeBody(w, r, &in) {
		return
	}
	var missing []string
	if in.Front == "" {
		missing = append(missing, "front")
	}
	if in.Back == "" {
		missing = append(missing, "back")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}
	hardness := in.HardnessLevel
	if hardness == "" {
		hardness = domain.DefaultHardness
	}
	if !hardness.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid hardness_level")
		return
	}
	now := s.now().UTC()
	card := &domain.Card{
		ID:                 uuid.NewString(),
		Front:              in.Front,
		Back:               in.Back,
		ExampleOriginal:    in.ExampleOriginal,
		ExampleTranslation: in.ExampleTranslation,
		Examples:           in.Examples,
		Synonyms:           in.Synonyms,
		Antonyms:           in.Antonyms,
		PartOfSpeech:       in.PartOfSpeech,
		Gender:             in.Gender,
		PluralForm:         in.PluralForm,
		Pronunciation:      in.Pronunciation,
		Notes:              in.Notes,
		Tags:               in.Tags,
		HardnessLevel:      hardness,
		DateCreated:        now,
		LastEdited:         now,
	}
	acct := accountFrom(r)
	s.mu.Lock()
	acct.putCard(card)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) updateCard(w http.ResponseWriter, r *http.Request) {
	var in domain.CardUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	if in.HardnessLevel != nil && !in.HardnessLevel.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid hardness_level")
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := acct.cards[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Card not found")
		return
	}
	applyString(&card.Front, in.Front)
	applyString(&card.Back, in.Back)
	applyString(&card.ExampleOriginal, in.ExampleOriginal)
	applyString(&card.ExampleTranslation, in.ExampleTranslation)
	applyString(&card.PartOfSpeech, in.PartOfSpeech)
	applyString(&card.Gender, in.Gender)
	applyString(&card.PluralForm, in.PluralForm)
	applyString(&card.Pronunciation, in.Pronunciation)
	applyString(&card.Notes, in.Notes)
	applySlice(&card.Examples, in.Examples)
	applySlice(&card.Synonyms, in.Synonyms)
	applySlice(&card.Antonyms, in.Antonyms)
	applySlice(&card.Tags, in.Tags)
	if in.HardnessLevel != nil {
		card.HardnessLevel = *in.HardnessLevel
	}
	card.LastEdited = s.now().UTC()
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := acct.cards[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Card not found")
		return
	}
	acct.removeCard(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) searchCards(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if q == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}
	offset := 0
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		n, ok := decodeCursor(raw)
		if !ok {
			writeDetail(w, http.StatusBadRequest, "Invalid cursor")
			return
		}
		offset = n
	}
	limit := queryInt(r, "limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	acct := accountFrom(r)
	s.mu.Lock()
	var matches []domain.Card
	for _, id := range acct.cardOrder {
		c := acct.cards[id]
		if strings.Contains(strings.ToLower(c.Front), q) || strings.Contains(strings.ToLower(c.Back), q) {
			matches = append(matches, *c)
		}
	}
	s.mu.Unlock()

	page := domain.SearchPage{Results: window(matches, offset, limit)}
	if next := offset + limit; next < len(matches) {
		page.NextCursor = encodeCursor(next)
	}
	writeJSON(w, http.StatusOK, page)
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("o:" + strconv.Itoa(offset)))
}

func decodeCursor(raw string) (int, bool) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(b), "o:"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applySlice[T any](dst *[]T, src *[]T) {
	if src != nil {
		*dst = *src
	}
}
