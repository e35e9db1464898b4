package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amirgolp/flashcard/internal/domain"
)

const maxUploadMemory = 32 << 20

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Book, 0, len(acct.bookOrder))
	for _, id := range acct.bookOrder {
		out = append(out, *acct.books[id])
	}
	writeJSON(w, http.StatusOK, window(out, queryInt(r, "skip", 0), queryInt(r, "limit", defaultListLimit)))
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := acct.books[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) uploadBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMissing(w, "file")
		return
	}
	defer file.Close()
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		writeMissing(w, "title")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "could not read upload")
		return
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		writeDetail(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}
	size := int64(len(data))

	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct.quota.FileCount >= acct.quota.MaxFiles {
		writeDetail(w, http.StatusForbidden, "File limit reached")
		return
	}
	if acct.quota.UsedBytes+size > acct.quota.MaxBytes {
		writeDetail(w, http.StatusForbidden, "Storage quota exceeded")
		return
	}

	now := s.now().UTC()
	book := &domain.Book{
		ID:             uuid.NewString(),
		Title:          title,
		Filename:       filepath.Base(header.Filename),
		TotalPages:     s.pages,
		Chapters:       []domain.Chapter{},
		TargetLanguage: r.FormValue("target_language"),
		NativeLanguage: r.FormValue("native_language"),
		DateCreated:    now,
		LastEdited:     now,
	}
	acct.books[book.ID] = book
	acct.bookOrder = append(acct.bookOrder, book.ID)
	acct.bookSizes[book.ID] = size
	acct.progress[book.ID] = &domain.BookProgress{
		ID:                uuid.NewString(),
		BookID:            book.ID,
		CurrentPage:       1,
		PagesProcessed:    []domain.PageRange{},
		ChaptersCompleted: []string{},
		DateCreated:       now,
		LastEdited:        now,
	}
	acct.quota.UsedBytes += size
	acct.quota.FileCount++
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	var in domain.BookUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := acct.books[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	applyString(&book.Title, in.Title)
	applyString(&book.TargetLanguage, in.TargetLanguage)
	applyString(&book.NativeLanguage, in.NativeLanguage)
	applySlice(&book.Chapters, in.Chapters)
	book.LastEdited = s.now().UTC()
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := acct.books[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	delete(acct.books, id)
	delete(acct.progress, id)
	acct.bookOrder = slices.DeleteFunc(acct.bookOrder, func(v string) bool { return v == id })
	acct.quota.UsedBytes = max(acct.quota.UsedBytes-acct.bookSizes[id], 0)
	acct.quota.FileCount = max(acct.quota.FileCount-1, 0)
	delete(acct.bookSizes, id)
	for draftID, d := range acct.drafts {
		if d.BookID == id {
			acct.dropDraft(draftID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	progress, ok := acct.progress[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book progress not found")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	var in domain.BookProgressUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	acct := accountFrom(r)
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	progress, ok := acct.progress[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book progress not found")
		return
	}
	if in.CurrentPage != nil {
		if *in.CurrentPage < 1 || *in.CurrentPage > acct.books[id].TotalPages {
			writeDetail(w, http.StatusBadRequest, "current_page is outside the book")
			return
		}
		progress.CurrentPage = *in.CurrentPage
	}
	applyString(&progress.CurrentChapter, in.CurrentChapter)
	progress.LastEdited = s.now().UTC()
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) updateChapters(w http.ResponseWriter, r *http.Request) {
	var chapters []domain.Chapter
	if !decodeBody(w, r, &chapters) {
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := acct.books[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if chapters == nil {
		chapters = []domain.Chapter{}
	}
	book.Chapters = chapters
	book.LastEdited = s.now().UTC()
	writeJSON(w, http.StatusOK, book)
}
