package domain

import "time"

// Chapter names a page span inside a book. Spans are taken as supplied by the
// caller; overlapping or out-of-order chapters are not rejected here.
type Chapter struct {
	Name      string `json:"name" validate:"required"`
	StartPage int    `json:"start_page" validate:"min=1"`
	EndPage   int    `json:"end_page" validate:"min=1"`
}

// PageRange is an inclusive span of pages.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Book is an uploaded PDF used as a generation source.
type Book struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Filename       string    `json:"filename"`
	TotalPages     int       `json:"total_pages"`
	Chapters       []Chapter `json:"chapters"`
	TargetLanguage string    `json:"target_language,omitempty"`
	NativeLanguage string    `json:"native_language,omitempty"`
	DateCreated    time.Time `json:"date_created"`
	LastEdited     time.Time `json:"last_edited"`
}

// BookUpdate carries the fields to change; nil fields are left untouched.
type BookUpdate struct {
	Title          *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	TargetLanguage *string    `json:"target_language,omitempty"`
	NativeLanguage *string    `json:"native_language,omitempty"`
	Chapters       *[]Chapter `json:"chapters,omitempty" validate:"omitempty,dive"`
}

// BookUpload describes a book file to upload.
type BookUpload struct {
	Path           string `validate:"required"`
	Title          string `validate:"required"`
	TargetLanguage string
	NativeLanguage string
}

// BookProgress is the per-book reading cursor maintained by the backend.
type BookProgress struct {
	ID                string      `json:"id"`
	BookID            string      `json:"book_id"`
	CurrentPage       int         `json:"current_page"`
	CurrentChapter    string      `json:"current_chapter,omitempty"`
	PagesProcessed    []PageRange `json:"pages_processed"`
	ChaptersCompleted []string    `json:"chapters_completed"`
	DateCreated       time.Time   `json:"date_created"`
	LastEdited        time.Time   `json:"last_edited"`
}

// ProcessedPages sums the pages across all processed ranges.
func (p BookProgress) ProcessedPages() int {
	total := 0
	for _, r := range p.PagesProcessed {
		total += r.Pages()
	}
	return total
}

// BookProgressUpdate moves the reading cursor.
type BookProgressUpdate struct {
	CurrentPage    *int    `json:"current_page,omitempty" validate:"omitempty,min=1"`
	CurrentChapter *string `json:"current_chapter,omitempty"`
}
