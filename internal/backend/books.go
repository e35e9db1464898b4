package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/amirgolp/flashcard/internal/domain"
)

const booksPath = "/books/"

func (c *Client) ListBooks(ctx context.Context, page Page) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.doJSON(ctx, http.MethodGet, booksPath, page.values(), nil, &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var book domain.Book
	if err := c.doJSON(ctx, http.MethodGet, itemPath(booksPath, id), nil, nil, &book); err != nil {
		return domain.Book{}, fmt.Errorf("get book %s: %w", id, err)
	}
	return book, nil
}

// UploadBook sends the PDF at in.Path as a multipart form with the title and
// optional languages.
func (c *Client) UploadBook(ctx context.Context, in domain.BookUpload) (domain.Book, error) {
	file, err := os.Open(in.Path)
	if err != nil {
		return domain.Book{}, fmt.Errorf("upload book: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(in.Path)))
	header.Set("Content-Type", domain.PDFMimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return domain.Book{}, fmt.Errorf("upload book: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.Book{}, fmt.Errorf("upload book: read %s: %w", in.Path, err)
	}
	fields := []struct{ name, value string }{
		{"title", in.Title},
		{"target_language", in.TargetLanguage},
		{"native_language", in.NativeLanguage},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := form.WriteField(f.name, f.value); err != nil {
			return domain.Book{}, fmt.Errorf("upload book: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return domain.Book{}, fmt.Errorf("upload book: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(booksPath, nil), &body)
	if err != nil {
		return domain.Book{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var book domain.Book
	if err := c.send(ctx, c.authed, req, booksPath, &book); err != nil {
		return domain.Book{}, fmt.Errorf("upload book: %w", err)
	}
	return book, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, in domain.BookUpdate) (domain.Book, error) {
	var book domain.Book
	if err := c.doJSON(ctx, http.MethodPut, itemPath(booksPath, id), nil, in, &book); err != nil {
		return domain.Book{}, fmt.Errorf("update book %s: %w", id, err)
	}
	return book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath(booksPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

// GetBookProgress returns the reading cursor for a book.
func (c *Client) GetBookProgress(ctx context.Context, id string) (domain.BookProgress, error) {
	var progress domain.BookProgress
	if err := c.doJSON(ctx, http.MethodGet, itemPath(booksPath, id)+"/progress", nil, nil, &progress); err != nil {
		return domain.BookProgress{}, fmt.Errorf("get progress for book %s: %w", id, err)
	}
	return progress, nil
}

func (c *Client) UpdateBookProgress(ctx context.Context, id string, in domain.BookProgressUpdate) (domain.BookProgress, error) {
	var progress domain.BookProgress
	if err := c.doJSON(ctx, http.MethodPut, itemPath(booksPath, id)+"/progress", nil, in, &progress); err != nil {
		return domain.BookProgress{}, fmt.Errorf("update progress for book %s: %w", id, err)
	}
	return progress, nil
}

// UpdateBookChapters replaces the book's chapter list. The body is a bare
// JSON array.
func (c *Client) UpdateBookChapters(ctx context.Context, id string, chapters []domain.Chapter) (domain.Book, error) {
	if chapters == nil {
		chapters = []domain.Chapter{}
	}
	var book domain.Book
	if err := c.doJSON(ctx, http.MethodPut, itemPath(booksPath, id)+"/chapters", nil, chapters, &book); err != nil {
		return domain.Book{}, fmt.Errorf("update chapters for book %s: %w", id, err)
	}
	return book, nil
}
