package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Family groups keys that are invalidated together.
type Family string

const (
	FamilyDecks        Family = "decks"
	FamilyCards        Family = "cards"
	FamilyBooks        Family = "books"
	FamilyBookProgress Family = "bookProgress"
	FamilyDrafts       Family = "drafts"
	FamilyStorage      Family = "storage"
	FamilySearchCards  Family = "searchCards"
)

// Key identifies one cached query.
type Key struct {
	Family Family
	Params string
}

// NewKey builds a key from a family and its parameters. Each part is rendered
// with fmt and quoted before joining, so a separator inside one part cannot
// make two different parameter lists produce the same key.
func NewKey(family Family, parts ...any) Key {
	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = strconv.Quote(fmt.Sprint(p))
	}
	return Key{Family: family, Params: strings.Join(rendered, "|")}
}

func (k Key) String() string {
	if k.Params == "" {
		return string(k.Family)
	}
	return string(k.Family) + ":" + k.Params
}
