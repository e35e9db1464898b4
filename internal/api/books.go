package api

import (
	"context"
	"fmt"
	"os"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
)

// BooksKey is the cache key of the book list.
func BooksKey() query.Key { return query.NewKey(query.FamilyBooks, "list") }

// BookKey is the cache key of one book.
func BookKey(id string) query.Key { return query.NewKey(query.FamilyBooks, "item", id) }

// BookProgressKey is the cache key of a book's reading progress.
func BookProgressKey(bookID string) query.Key { return query.NewKey(query.FamilyBookProgress, bookID) }

// Books lists the user's books.
func (s *Service) Books(ctx context.Context) ([]domain.Book, error) {
	books, err := query.Fetch(ctx, s.cache, BooksKey(), func(ctx context.Context) ([]domain.Book, error) {
		return s.backend.ListBooks(ctx, s.page())
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Book fetches one book.
func (s *Service) Book(ctx context.Context, id string) (domain.Book, error) {
	book, err := query.Fetch(ctx, s.cache, BookKey(id), func(ctx context.Context) (domain.Book, error) {
		return s.backend.GetBook(ctx, id)
	})
	if err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// BookProgress fetches the reading cursor of a book.
func (s *Service) BookProgress(ctx context.Context, bookID string) (domain.BookProgress, error) {
	progress, err := query.Fetch(ctx, s.cache, BookProgressKey(bookID), func(ctx context.Context) (domain.BookProgress, error) {
		return s.backend.GetBookProgress(ctx, bookID)
	})
	if err != nil {
		return domain.BookProgress{}, err
	}
	return progress, nil
}

// UploadBook checks the file against the type, size, and quota limits and
// uploads it. Nothing is sent when a check fails.
func (s *Service) UploadBook(ctx context.Context, in domain.BookUpload) (domain.Book, error) {
	if err := domain.Validate(in); err != nil {
		return domain.Book{}, err
	}
	info, err := os.Stat(in.Path)
	if err != nil {
		return domain.Book{}, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return domain.Book{}, fmt.Errorf("%w: %s is a directory", domain.ErrValidation, in.Path)
	}
	mime, err := domain.DetectMIME(in.Path)
	if err != nil {
		return domain.Book{}, err
	}
	if err := domain.CheckUpload(info.Size(), mime, s.uploadQuota(ctx), s.opts.MaxUploadBytes); err != nil {
		return domain.Book{}, err
	}
	book, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Book, error) {
		return s.backend.UploadBook(ctx, in)
	}, query.FamilyBooks, query.FamilyStorage)
	if err != nil {
		return domain.Book{}, err
	}
	s.logger.Info("book uploaded",
		logging.BookID(book.ID),
		logging.String("title", book.Title),
		logging.Int("pages", book.TotalPages))
	return book, nil
}

// uploadQuota returns nil when the quota cannot be read, leaving the quota
// decision to the backend.
func (s *Service) uploadQuota(ctx context.Context) *domain.StorageQuota {
	quota, err := s.StorageQuota(ctx)
	if err != nil {
		s.logger.Warn("storage quota unavailable; skipping quota check", logging.Error(err))
		return nil
	}
	return &quota
}

// UpdateBook applies a partial update.
func (s *Service) UpdateBook(ctx context.Context, id string, in domain.BookUpdate) (domain.Book, error) {
	if err := domain.Validate(in); err != nil {
		return domain.Book{}, err
	}
	book, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Book, error) {
		return s.backend.UpdateBook(ctx, id, in)
	}, query.FamilyBooks)
	if err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// DeleteBook removes a book together with its progress and drafts.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.backend.DeleteBook(ctx, id)
	}, query.FamilyBooks, query.FamilyBookProgress, query.FamilyDrafts, query.FamilyStorage)
	if err != nil {
		return err
	}
	s.logger.Info("book deleted", logging.BookID(id))
	return nil
}

// UpdateBookProgress moves the reading cursor of a book.
func (s *Service) UpdateBookProgress(ctx context.Context, bookID string, in domain.BookProgressUpdate) (domain.BookProgress, error) {
	if err := domain.Validate(in); err != nil {
		return domain.BookProgress{}, err
	}
	progress, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.BookProgress, error) {
		return s.backend.UpdateBookProgress(ctx, bookID, in)
	}, query.FamilyBookProgress)
	if err != nil {
		return domain.BookProgress{}, err
	}
	return progress, nil
}

// UpdateBookChapters replaces a book's chapter list. Ranges are passed
// through as given.
func (s *Service) UpdateBookChapters(ctx context.Context, bookID string, chapters []domain.Chapter) (domain.Book, error) {
	for _, ch := range chapters {
		if err := domain.Validate(ch); err != nil {
			return domain.Book{}, err
		}
	}
	book, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Book, error) {
		return s.backend.UpdateBookChapters(ctx, bookID, chapters)
	}, query.FamilyBooks)
	if err != nil {
		return domain.Book{}, err
	}
	return book, nil
}
