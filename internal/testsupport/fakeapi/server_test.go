package fakeapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/backend"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/testsupport/fakeapi"
)

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv := fakeapi.Start(t)
	client := srv.NewAnonymousClient(t)

	_, err := client.ListDecks(context.Background(), backend.Page{})
	require.Error(t, err)
	assert.True(t, backend.IsUnauthorized(err))
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	srv := fakeapi.Start(t)
	client := srv.NewAnonymousClient(t)
	ctx := context.Background()

	user, err := client.Register(ctx, domain.RegisterRequest{Username: "anna", Email: "anna@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)
	assert.NotEmpty(t, user.ID)

	_, err = client.Register(ctx, domain.RegisterRequest{Username: "anna", Email: "other@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, backend.IsStatus(err, http.StatusBadRequest))

	_, err = client.Login(ctx, "anna", "wrong")
	assert.True(t, backend.IsUnauthorized(err))

	token, err := client.Login(ctx, "anna", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
}

func TestAccountsAreIsolated(t *testing.T) {
	srv := fakeapi.Start(t)
	ctx := context.Background()
	anna := srv.NewClient(t, "anna")
	ben := srv.NewClient(t, "ben")

	_, err := anna.CreateCard(ctx, domain.CardCreate{Front: "Hund", Back: "dog"})
	require.NoError(t, err)

	cards, err := ben.ListCards(ctx, backend.Page{})
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestSearchCursorWalk(t *testing.T) {
	srv := fakeapi.Start(t)
	client := srv.NewClient(t, "anna")
	for _, front := range []string{"Haus", "Hase", "Hand", "Katze", "Hut", "Hof"} {
		srv.SeedCard("anna", domain.Card{Front: front, Back: "x"})
	}
	ctx := context.Background()

	first, err := client.SearchCards(ctx, "h", "", 2)
	require.NoError(t, err)
	require.Len(t, first.Results, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := client.SearchCards(ctx, "h", first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Results, 2)
	require.NotEmpty(t, second.NextCursor)

	third, err := client.SearchCards(ctx, "h", second.NextCursor, 2)
	require.NoError(t, err)
	assert.Len(t, third.Results, 1)
	assert.Empty(t, third.NextCursor)

	_, err = client.SearchCards(ctx, "h", "not-a-cursor!", 2)
	assert.True(t, backend.IsStatus(err, http.StatusBadRequest))
}

func TestMissingFieldsReturnValidationDetail(t *testing.T) {
	srv := fakeapi.Start(t)
	client := srv.NewClient(t, "anna")

	_, err := client.CreateCard(context.Background(), domain.CardCreate{Back: "dog"})
	require.Error(t, err)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "front")
}

func TestFailInjectsOneResponse(t *testing.T) {
	srv := fakeapi.Start(t)
	client := srv.NewClient(t, "anna")
	ctx := context.Background()

	srv.Fail(http.MethodGet, "/decks/", http.StatusServiceUnavailable, "maintenance")
	_, err := client.ListDecks(ctx, backend.Page{})
	assert.True(t, backend.IsStatus(err, http.StatusServiceUnavailable))

	_, err = client.ListDecks(ctx, backend.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Calls(http.MethodGet, "/decks/"))
}
