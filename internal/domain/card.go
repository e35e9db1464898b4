package domain

import "time"

// ExampleSentence pairs a usage example with its translation.
type ExampleSentence struct {
	Sentence    string `json:"sentence" validate:"required"`
	Translation string `json:"translation"`
}

// Card is a single front/back study item with optional linguistic metadata.
type Card struct {
	ID                 string            `json:"id"`
	Front              string            `json:"front"`
	Back               string            `json:"back"`
	ExampleOriginal    string            `json:"example_original,omitempty"`
	ExampleTranslation string            `json:"example_translation,omitempty"`
	Examples           []ExampleSentence `json:"examples,omitempty"`
	Synonyms           []string          `json:"synonyms,omitempty"`
	Antonyms           []string          `json:"antonyms,omitempty"`
	PartOfSpeech       string            `json:"part_of_speech,omitempty"`
	Gender             string            `json:"gender,omitempty"`
	PluralForm         string            `json:"plural_form,omitempty"`
	Pronunciation      string            `json:"pronunciation,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	HardnessLevel      HardnessLevel     `json:"hardness_level"`
	DateCreated        time.Time         `json:"date_created"`
	LastEdited         time.Time         `json:"last_edited"`
	LastVisited        *time.Time        `json:"last_visited,omitempty"`
	SourceBookID       string            `json:"source_book_id,omitempty"`
	SourcePage         *int              `json:"source_page,omitempty"`
}

// CardCreate is the payload for creating a card by hand.
type CardCreate struct {
	Front              string            `json:"front" validate:"required,max=500"`
	Back               string            `json:"back" validate:"required,max=500"`
	ExampleOriginal    string            `json:"example_original,omitempty"`
	ExampleTranslation string            `json:"example_translation,omitempty"`
	Examples           []ExampleSentence `json:"examples,omitempty" validate:"omitempty,dive"`
	Synonyms           []string          `json:"synonyms,omitempty"`
	Antonyms           []string          `json:"antonyms,omitempty"`
	PartOfSpeech       string            `json:"part_of_speech,omitempty"`
	Gender             string            `json:"gender,omitempty"`
	PluralForm         string            `json:"plural_form,omitempty"`
	Pronunciation      string            `json:"pronunciation,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Tags               []string          `json:"tags,omitempty" validate:"omitempty,dive,required"`
	HardnessLevel      HardnessLevel     `json:"hardness_level,omitempty" validate:"omitempty,hardness"`
}

// CardUpdate carries the fields to change; nil fields are left untouched.
type CardUpdate struct {
	Front              *string            `json:"front,omitempty" validate:"omitempty,min=1,max=500"`
	Back               *string            `json:"back,omitempty" validate:"omitempty,min=1,max=500"`
	ExampleOriginal    *string            `json:"example_original,omitempty"`
	ExampleTranslation *string            `json:"example_translation,omitempty"`
	Examples           *[]ExampleSentence `json:"examples,omitempty"`
	Synonyms           *[]string          `json:"synonyms,omitempty"`
	Antonyms           *[]string          `json:"antonyms,omitempty"`
	PartOfSpeech       *string            `json:"part_of_speech,omitempty"`
	Gender             *string            `json:"gender,omitempty"`
	PluralForm         *string            `json:"plural_form,omitempty"`
	Pronunciation      *string            `json:"pronunciation,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	Tags               *[]string          `json:"tags,omitempty"`
	HardnessLevel      *HardnessLevel     `json:"hardness_level,omitempty" validate:"omitempty,hardness"`
}

// Empty reports whether the update would change nothing.
func (u CardUpdate) Empty() bool {
	return u.Front == nil && u.Back == nil && u.ExampleOriginal == nil &&
		u.ExampleTranslation == nil && u.Examples == nil && u.Synonyms == nil &&
		u.Antonyms == nil && u.PartOfSpeech == nil && u.Gender == nil &&
		u.PluralForm == nil && u.Pronunciation == nil && u.Notes == nil &&
		u.Tags == nil && u.HardnessLevel == nil
}

// SearchPage is one page of card search results.
type SearchPage struct {
	Results    []Card `json:"results"`
	NextCursor string `json:"next_cursor,omitempty"`
}
