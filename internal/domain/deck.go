package domain

// Deck is a named, user-owned collection of cards.
type Deck struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cards       []Card `json:"cards"`
}

// CardIDs returns the ids of the cards in the deck, in deck order.
func (d Deck) CardIDs() []string {
	ids := make([]string, 0, len(d.Cards))
	for _, c := range d.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// DeckCreate is the payload for creating a deck.
type DeckCreate struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	CardIDs     []string `json:"card_ids,omitempty" validate:"omitempty,dive,required"`
}

// DeckUpdate carries the fields to change; nil fields are left untouched.
// CardIDs replaces the deck's card list as a whole.
type DeckUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	CardIDs     *[]string `json:"card_ids,omitempty"`
}
