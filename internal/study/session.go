// Package study walks a deck one card at a time, the terminal counterpart of
// the flip-card view. The position in each deck is saved so a later walk
// resumes where the previous one stopped.
package study

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/textutil"
)

// PositionStore persists the walk position per deck.
type PositionStore interface {
	StudyPosition(ctx context.Context, deckID string) (int, bool, error)
	SetStudyPosition(ctx context.Context, deckID string, pos int) error
}

// CardRater records a hardness rating for a card.
type CardRater interface {
	UpdateCard(ctx context.Context, id string, in domain.CardUpdate) (domain.Card, error)
}

// Side is what the terminal shows for the current card.
type Side struct {
	Index   int
	Total   int
	Flipped bool
	Text    string
	Example string
	Card    domain.Card
}

// Session is one walk through a deck.
type Session struct {
	deckID string
	store  PositionStore

	mu      sync.Mutex
	cards   []domain.Card
	pos     int
	flipped bool
}

// Start begins a walk over cards, resuming the saved position for deckID
// when it still fits the deck. A nil store disables persistence.
func Start(ctx context.Context, deckID string, cards []domain.Card, store PositionStore) (*Session, error) {
	s := &Session{deckID: deckID, store: store, cards: slices.Clone(cards)}
	if store == nil || len(cards) == 0 {
		return s, nil
	}
	pos, ok, err := store.StudyPosition(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if ok && pos < len(cards) {
		s.pos = pos
	}
	return s, nil
}

// Len returns the number of cards in the walk.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// Position returns the zero-based index of the current card.
func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Current returns the visible side of the current card. It reports false
// for an empty deck.
func (s *Session) Current() (Side, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cards) == 0 {
		return Side{}, false
	}
	card := s.cards[s.pos]
	side := Side{Index: s.pos, Total: len(s.cards), Flipped: s.flipped, Card: card}
	if s.flipped {
		side.Text = textutil.PlainText(card.Back)
		side.Example = textutil.PlainText(card.ExampleTranslation)
	} else {
		side.Text = textutil.PlainText(card.Front)
		side.Example = textutil.PlainText(card.ExampleOriginal)
	}
	return side, true
}

// Flip turns the current card over and reports whether the back is showing.
func (s *Session) Flip() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cards) == 0 {
		return false
	}
	s.flipped = !s.flipped
	return s.flipped
}

// Next moves to the following card, wrapping to the first, and shows its
// front.
func (s *Session) Next(ctx context.Context) error {
	return s.move(ctx, 1)
}

// Previous moves to the preceding card, wrapping to the last.
func (s *Session) Previous(ctx context.Context) error {
	return s.move(ctx, -1)
}

func (s *Session) move(ctx context.Context, step int) error {
	s.mu.Lock()
	n := len(s.cards)
	if n == 0 {
		s.mu.Unlock()
		return nil
	}
	s.pos = ((s.pos+step)%n + n) % n
	s.flipped = false
	pos := s.pos
	s.mu.Unlock()
	return s.save(ctx, pos)
}

func (s *Session) save(ctx context.Context, pos int) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SetStudyPosition(ctx, s.deckID, pos); err != nil {
		return fmt.Errorf("save study position: %w", err)
	}
	return nil
}

// Rate stores a hardness rating for the current card and keeps the local
// copy in step with the backend's answer.
func (s *Session) Rate(ctx context.Context, rater CardRater, level domain.HardnessLevel) (domain.Card, error) {
	if !level.Valid() {
		return domain.Card{}, fmt.Errorf("%w: %q", domain.ErrInvalidHardness, level)
	}
	s.mu.Lock()
	if len(s.cards) == 0 {
		s.mu.Unlock()
		return domain.Card{}, fmt.Errorf("rate card: deck is empty")
	}
	pos := s.pos
	id := s.cards[pos].ID
	s.mu.Unlock()

	card, err := rater.UpdateCard(ctx, id, domain.CardUpdate{HardnessLevel: &level})
	if err != nil {
		return domain.Card{}, err
	}
	s.mu.Lock()
	if pos < len(s.cards) && s.cards[pos].ID == id {
		s.cards[pos] = card
	}
	s.mu.Unlock()
	return card, nil
}

// FilterByHardness keeps cards rated at one of levels. No levels keeps
// every card.
func FilterByHardness(cards []domain.Card, levels ...domain.HardnessLevel) []domain.Card {
	if len(levels) == 0 {
		return cards
	}
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if slices.Contains(levels, c.HardnessLevel) {
			out = append(out, c)
		}
	}
	return out
}
