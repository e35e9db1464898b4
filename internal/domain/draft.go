package domain

import (
	"fmt"
	"strings"
	"time"
)

// DraftStatus tracks a generated card through review.
type DraftStatus string

const (
	DraftPending  DraftStatus = "pending"
	DraftApproved DraftStatus = "approved"
	DraftRejected DraftStatus = "rejected"
)

// DraftStatuses lists the statuses in review-tab order.
func DraftStatuses() []DraftStatus {
	return []DraftStatus{DraftPending, DraftApproved, DraftRejected}
}

// Valid reports whether s is a known status.
func (s DraftStatus) Valid() bool {
	switch s {
	case DraftPending, DraftApproved, DraftRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s DraftStatus) Terminal() bool {
	return s == DraftApproved || s == DraftRejected
}

func (s DraftStatus) String() string { return string(s) }

// ParseDraftStatus normalizes a user-supplied status name.
func ParseDraftStatus(value string) (DraftStatus, error) {
	s := DraftStatus(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDraftStatus, value)
	}
	return s, nil
}

// CanTransition reports whether a draft may move from one status to another.
// Only pending drafts move, and only once.
func CanTransition(from, to DraftStatus) bool {
	return from == DraftPending && (to == DraftApproved || to == DraftRejected)
}

// CheckTransition returns ErrInvalidTransition when CanTransition is false.
func CheckTransition(from, to DraftStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// DraftCard is a generated card awaiting review.
type DraftCard struct {
	ID                string            `json:"id"`
	Front             string            `json:"front"`
	Back              string            `json:"back"`
	Examples          []ExampleSentence `json:"examples,omitempty"`
	Synonyms          []string          `json:"synonyms,omitempty"`
	Antonyms          []string          `json:"antonyms,omitempty"`
	PartOfSpeech      string            `json:"part_of_speech,omitempty"`
	Gender            string            `json:"gender,omitempty"`
	PluralForm        string            `json:"plural_form,omitempty"`
	Pronunciation     string            `json:"pronunciation,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	Status            DraftStatus       `json:"status"`
	BookID            string            `json:"book_id"`
	SourcePageStart   *int              `json:"source_page_start,omitempty"`
	SourcePageEnd     *int              `json:"source_page_end,omitempty"`
	GenerationBatchID string            `json:"generation_batch_id,omitempty"`
	DateCreated       time.Time         `json:"date_created"`
}

// DraftUpdate edits a draft's content. Status changes go through approve and
// reject only.
type DraftUpdate struct {
	Front         *string            `json:"front,omitempty" validate:"omitempty,min=1,max=500"`
	Back          *string            `json:"back,omitempty" validate:"omitempty,min=1,max=500"`
	Examples      *[]ExampleSentence `json:"examples,omitempty"`
	Synonyms      *[]string          `json:"synonyms,omitempty"`
	Antonyms      *[]string          `json:"antonyms,omitempty"`
	PartOfSpeech  *string            `json:"part_of_speech,omitempty"`
	Gender        *string            `json:"gender,omitempty"`
	PluralForm    *string            `json:"plural_form,omitempty"`
	Pronunciation *string            `json:"pronunciation,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Tags          *[]string          `json:"tags,omitempty"`
}

// DraftFilter selects drafts for listing. An empty Status means pending. The
// service treats a zero Limit as "every matching draft" and pages for it.
type DraftFilter struct {
	BookID  string
	BatchID string
	Status  DraftStatus
	Skip    int
	Limit   int
}

// GenerateNextBatchRequest asks the backend to continue from the book's
// reading cursor.
type GenerateNextBatchRequest struct {
	BookID   string `json:"book_id" validate:"required"`
	NumPages int    `json:"num_pages,omitempty" validate:"omitempty,min=1"`
	NumCards int    `json:"num_cards,omitempty" validate:"omitempty,min=1,max=50"`
}

// GenerateFromRangeRequest asks for drafts from an explicit page span.
type GenerateFromRangeRequest struct {
	BookID    string `json:"book_id" validate:"required"`
	StartPage int    `json:"start_page" validate:"min=1"`
	EndPage   int    `json:"end_page" validate:"min=1,gtefield=StartPage"`
	NumCards  int    `json:"num_cards,omitempty" validate:"omitempty,min=1,max=50"`
}

// GenerationResult is the backend's answer to a generation request.
type GenerationResult struct {
	BatchID        string      `json:"batch_id"`
	Drafts         []DraftCard `json:"drafts"`
	PagesProcessed PageRange   `json:"pages_processed"`
	Message        string      `json:"message"`
}

// BulkApproveRequest approves several drafts at once, optionally into a deck.
type BulkApproveRequest struct {
	DraftIDs []string `json:"draft_ids" validate:"required,min=1,dive,required"`
	DeckID   string   `json:"deck_id,omitempty"`
}
