package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/backend"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/query"
	"github.com/amirgolp/flashcard/internal/session"
	"github.com/amirgolp/flashcard/internal/testsupport"
	"github.com/amirgolp/flashcard/internal/testsupport/fakeapi"
)

func newService(t *testing.T, opts ...fakeapi.Option) (*api.Service, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.Start(t, opts...)
	client := srv.NewClient(t, "anna")
	cache, err := query.New(query.Options{FreshFor: time.Minute, Retryable: api.Retryable})
	require.NoError(t, err)
	return api.NewService(client, cache, api.Options{}), srv
}

func TestDeletedDeckDisappearsWithoutRefresh(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()

	deck, err := svc.CreateDeck(ctx, domain.DeckCreate{Name: "Animals"})
	require.NoError(t, err)
	_, err = svc.CreateDeck(ctx, domain.DeckCreate{Name: "Food"})
	require.NoError(t, err)

	decks, err := svc.Decks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)

	require.NoError(t, svc.DeleteDeck(ctx, deck.ID))

	decks, err = svc.Decks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "Food", decks[0].Name)
	assert.Equal(t, 2, srv.Calls(http.MethodGet, "/decks/"))
}

func TestFreshListIsServedFromCache(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Decks(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/decks/"))
}

func TestFailedMutationKeepsCache(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()

	deck, err := svc.CreateDeck(ctx, domain.DeckCreate{Name: "Animals"})
	require.NoError(t, err)
	_, err = svc.Decks(ctx)
	require.NoError(t, err)

	srv.Fail(http.MethodDelete, "/decks/"+deck.ID, http.StatusInternalServerError, "boom")
	err = svc.DeleteDeck(ctx, deck.ID)
	require.Error(t, err)

	snap := svc.Cache().State(api.DecksKey())
	assert.Equal(t, query.StatusSuccess, snap.Status)
	assert.False(t, snap.Stale)
}

func TestCreateDeckValidatesBeforeNetwork(t *testing.T) {
	svc, srv := newService(t)

	_, err := svc.CreateDeck(context.Background(), domain.DeckCreate{})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, srv.Calls(http.MethodPost, "/decks/"))
}

func TestDeckMembership(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, domain.CardCreate{Front: "Hund", Back: "dog"})
	require.NoError(t, err)
	assert.Equal(t, domain.HardnessMedium, card.HardnessLevel)
	deck, err := svc.CreateDeck(ctx, domain.DeckCreate{Name: "Animals"})
	require.NoError(t, err)

	deck, err = svc.AddCardToDeck(ctx, deck.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{card.ID}, deck.CardIDs())

	deck, err = svc.AddCardToDeck(ctx, deck.ID, card.ID)
	require.NoError(t, err)
	assert.Len(t, deck.Cards, 1)

	deck, err = svc.RemoveCardFromDeck(ctx, deck.ID, card.ID)
	require.NoError(t, err)
	assert.Empty(t, deck.Cards)

	cards, err := svc.Cards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestCardEditRefreshesDeckContents(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, domain.CardCreate{Front: "Hund", Back: "dog"})
	require.NoError(t, err)
	deck, err := svc.CreateDeck(ctx, domain.DeckCreate{Name: "Animals", CardIDs: []string{card.ID}})
	require.NoError(t, err)

	_, err = svc.Deck(ctx, deck.ID)
	require.NoError(t, err)

	back := "the dog"
	_, err = svc.UpdateCard(ctx, card.ID, domain.CardUpdate{Back: &back})
	require.NoError(t, err)

	deck, err = svc.Deck(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, deck.Cards, 1)
	assert.Equal(t, "the dog", deck.Cards[0].Back)
}

func TestUpdateCardRejectsEmptyUpdate(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.UpdateCard(context.Background(), "any", domain.CardUpdate{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestBlankSearchSkipsNetwork(t *testing.T) {
	svc, srv := newService(t)

	page, err := svc.SearchCards(context.Background(), "   ", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Empty(t, page.NextCursor)
	assert.Zero(t, srv.Calls(http.MethodGet, "/search/cards"))
}

func TestSearchSeesNewCards(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	page, err := svc.SearchCards(ctx, "hund", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Results)

	_, err = svc.CreateCard(ctx, domain.CardCreate{Front: "Hund", Back: "dog"})
	require.NoError(t, err)

	page, err = svc.SearchCards(ctx, "hund", "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
}

func TestUploadChecksRunBeforeNetwork(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		write   func(path string)
		limit   int64
		options []fakeapi.Option
		wantErr error
	}{
		{
			name:    "not a pdf",
			write:   func(path string) { testsupport.WriteFile(t, path, 2048) },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "over size ceiling",
			write:   func(path string) { testsupport.WritePDF(t, path, 4096) },
			limit:   1024,
			wantErr: domain.ErrValidation,
		},
		{
			name:    "over byte quota",
			write:   func(path string) { testsupport.WritePDF(t, path, 4096) },
			options: []fakeapi.Option{fakeapi.WithQuota(1024, 5)},
			wantErr: domain.ErrQuota,
		},
		{
			name:    "no files left",
			write:   func(path string) { testsupport.WritePDF(t, path, 512) },
			options: []fakeapi.Option{fakeapi.WithQuota(1<<20, 0)},
			wantErr: domain.ErrQuota,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeapi.Start(t, tt.options...)
			cache, err := query.New(query.Options{})
			require.NoError(t, err)
			svc := api.NewService(srv.NewClient(t, "anna"), cache, api.Options{MaxUploadBytes: tt.limit})

			path := filepath.Join(dir, "book"+string(rune('a'+i))+".pdf")
			tt.write(path)
			_, err = svc.UploadBook(context.Background(), domain.BookUpload{Path: path, Title: "Book"})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, srv.Calls(http.MethodPost, "/books/"))
		})
	}
}

func TestUploadRefreshesQuotaAndBooks(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tiere.pdf")
	testsupport.WritePDF(t, path, 2048)

	quota, err := svc.StorageQuota(ctx)
	require.NoError(t, err)
	assert.Zero(t, quota.FileCount)
	books, err := svc.Books(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	book, err := svc.UploadBook(ctx, domain.BookUpload{Path: path, Title: "Tiere", TargetLanguage: "de", NativeLanguage: "en"})
	require.NoError(t, err)
	assert.Equal(t, "tiere.pdf", book.Filename)
	assert.Equal(t, "de", book.TargetLanguage)

	quota, err = svc.StorageQuota(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, quota.FileCount)
	assert.EqualValues(t, 2048, quota.UsedBytes)

	books, err = svc.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	progress, err := svc.BookProgress(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CurrentPage)
}

func TestChaptersPassThroughUnvalidated(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "book.pdf")
	testsupport.WritePDF(t, path, 1024)
	book, err := svc.UploadBook(ctx, domain.BookUpload{Path: path, Title: "Book"})
	require.NoError(t, err)

	overlapping := []domain.Chapter{
		{Name: "Two", StartPage: 10, EndPage: 30},
		{Name: "One", StartPage: 1, EndPage: 20},
	}
	updated, err := svc.UpdateBookChapters(ctx, book.ID, overlapping)
	require.NoError(t, err)
	assert.Equal(t, overlapping, updated.Chapters)

	_, err = svc.UpdateBookChapters(ctx, book.ID, []domain.Chapter{{StartPage: 1, EndPage: 2}})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDisconnectRefusedWhileFilesStored(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()

	_, err := svc.ConfigureTelegram(ctx, domain.TelegramStorageConfig{BotToken: "123:abc", UserID: "42"})
	require.NoError(t, err)
	cfg, err := svc.StorageConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.IsConfigured)
	assert.Equal(t, domain.StorageTelegram, cfg.StorageType)

	srv.SetUsage("anna", 2048, 1)
	_, err = svc.DisconnectStorage(ctx)
	require.ErrorIs(t, err, api.ErrStorageInUse)
	assert.Zero(t, srv.Calls(http.MethodPost, "/storage/disconnect"))

	srv.SetUsage("anna", 0, 0)
	msg, err := svc.DisconnectStorage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Storage disconnected successfully", msg.Text())

	cfg, err = svc.StorageConfig(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.IsConfigured)
}

func TestRetryable(t *testing.T) {
	assert.False(t, api.Retryable(&backend.APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, api.Retryable(context.Canceled))
	assert.False(t, api.Retryable(fmt.Errorf("GET /decks/: %w", session.ErrNotAuthenticated)))
	assert.True(t, api.Retryable(&backend.APIError{StatusCode: http.StatusBadGateway}))
	assert.True(t, api.Retryable(errors.New("connection reset")))
}

func TestFilters(t *testing.T) {
	decks := []domain.Deck{{Name: "Tiere"}, {Name: "Essen"}, {Name: "TIERPARK"}}

	assert.Equal(t, []domain.Deck{{Name: "Tiere"}, {Name: "TIERPARK"}}, api.FilterDecks(decks, "tier"))
	assert.Equal(t, decks, api.FilterDecks(decks, ""))
	assert.Empty(t, api.FilterDecks(decks, "xyz"))

	cards := []domain.Card{{Front: "Hund", Back: "dog"}, {Front: "Katze", Back: "cat"}}
	assert.Len(t, api.FilterCards(cards, "DOG"), 1)
	assert.Len(t, api.FilterCards(cards, "a"), 1)

	books := []domain.Book{{Title: "Über Tiere"}, {Title: "Kochen"}}
	assert.Len(t, api.FilterBooks(books, "über"), 1)
}
