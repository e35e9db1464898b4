package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirgolp/flashcard/internal/backend"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
	"github.com/amirgolp/flashcard/internal/session"
)

// ErrStorageInUse is returned when disconnecting storage that still holds files.
var ErrStorageInUse = errors.New("storage still holds files")

const defaultListLimit = 100

// Backend is the subset of the REST client the service needs.
type Backend interface {
	ListDecks(ctx context.Context, page backend.Page) ([]domain.Deck, error)
	GetDeck(ctx context.Context, id string) (domain.Deck, error)
	CreateDeck(ctx context.Context, in domain.DeckCreate) (domain.Deck, error)
	UpdateDeck(ctx context.Context, id string, in domain.DeckUpdate) (domain.Deck, error)
	DeleteDeck(ctx context.Context, id string) error

	ListCards(ctx context.Context, page backend.Page) ([]domain.Card, error)
	GetCard(ctx context.Context, id string) (domain.Card, error)
	CreateCard(ctx context.Context, in domain.CardCreate) (domain.Card, error)
	UpdateCard(ctx context.Context, id string, in domain.CardUpdate) (domain.Card, error)
	DeleteCard(ctx context.Context, id string) error
	SearchCards(ctx context.Context, query, cursor string, limit int) (domain.SearchPage, error)

	ListBooks(ctx context.Context, page backend.Page) ([]domain.Book, error)
	GetBook(ctx context.Context, id string) (domain.Book, error)
	UploadBook(ctx context.Context, in domain.BookUpload) (domain.Book, error)
	UpdateBook(ctx context.Context, id string, in domain.BookUpdate) (domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
	GetBookProgress(ctx context.Context, id string) (domain.BookProgress, error)
	UpdateBookProgress(ctx context.Context, id string, in domain.BookProgressUpdate) (domain.BookProgress, error)
	UpdateBookChapters(ctx context.Context, id string, chapters []domain.Chapter) (domain.Book, error)

	GenerateNextBatch(ctx context.Context, in domain.GenerateNextBatchRequest) (domain.GenerationResult, error)
	GenerateFromRange(ctx context.Context, in domain.GenerateFromRangeRequest) (domain.GenerationResult, error)
	ListDrafts(ctx context.Context, filter domain.DraftFilter) ([]domain.DraftCard, error)
	UpdateDraft(ctx context.Context, id string, in domain.DraftUpdate) (domain.DraftCard, error)
	ApproveDraft(ctx context.Context, id, deckID string) (domain.Card, error)
	BulkApproveDrafts(ctx context.Context, in domain.BulkApproveRequest) ([]domain.Card, error)
	RejectDraft(ctx context.Context, id string) (domain.Message, error)
	DeleteRejectedDrafts(ctx context.Context, bookID string) (domain.Message, error)

	GetStorageConfig(ctx context.Context) (domain.StorageConfig, error)
	GetStorageQuota(ctx context.Context) (domain.StorageQuota, error)
	ConfigureTelegram(ctx context.Context, in domain.TelegramStorageConfig) (domain.TelegramConfigured, error)
	GoogleDriveAuthURL(ctx context.Context) (domain.GoogleDriveAuth, error)
	DisconnectStorage(ctx context.Context) (domain.Message, error)
}

var _ Backend = (*backend.Client)(nil)

// Options configures a Service.
type Options struct {
	// ListLimit is the page size requested for deck, card, and book lists.
	ListLimit int
	// MaxUploadBytes caps a single book upload.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Service exposes cached reads and invalidating mutations over a Backend.
type Service struct {
	backend Backend
	cache   *query.Cache
	opts    Options
	logger  *slog.Logger
}

// NewService wires a Service. The cache is shared with any observers the
// caller creates so that invalidations reach them.
func NewService(b Backend, cache *query.Cache, opts Options) *Service {
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = domain.DefaultMaxUploadBytes
	}
	return &Service{
		backend: b,
		cache:   cache,
		opts:    opts,
		logger:  logging.NewComponentLogger(opts.Logger, "api"),
	}
}

// Cache returns the query cache behind the service.
func (s *Service) Cache() *query.Cache {
	return s.cache
}

// Retryable is the query retry predicate for backend errors: client errors
// (4xx) and missing sessions are final.
func Retryable(err error) bool {
	if backend.IsClientError(err) || errors.Is(err, session.ErrNotAuthenticated) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (s *Service) page() backend.Page {
	return backend.Page{Limit: s.opts.ListLimit}
}
