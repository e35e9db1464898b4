package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/backend"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/session"
	"github.com/amirgolp/flashcard/internal/state"
	"github.com/amirgolp/flashcard/internal/testsupport"
	"github.com/amirgolp/flashcard/internal/testsupport/fakeapi"
)

type harness struct {
	srv    *fakeapi.Server
	store  *state.Store
	sess   *session.Session
	client *backend.Client
}

func newHarness(t *testing.T) harness {
	t.Helper()
	srv := fakeapi.Start(t)
	cfg := testsupport.NewConfig(t, testsupport.WithAPIURL(srv.URL))
	store := testsupport.MustOpenState(t, cfg)
	sess := session.New(store, nil)
	require.NoError(t, sess.Open(context.Background()))
	client, err := backend.NewClient(backend.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, backend.WithTokenSource(sess))
	require.NoError(t, err)
	return harness{srv: srv, store: store, sess: sess, client: client}
}

func TestStartsLoggedOut(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.sess.Authenticated())
	assert.ErrorIs(t, h.sess.RequireAuth(), session.ErrNotAuthenticated)

	_, err := h.client.ListDecks(context.Background(), backend.Page{})
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Zero(t, h.srv.Calls("GET", "/decks/"))
}

func TestRegisterLogsIn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user, err := h.sess.Register(ctx, h.client, domain.RegisterRequest{Username: "anna", Email: "anna@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)
	assert.True(t, h.sess.Authenticated())
	assert.Equal(t, "anna", h.sess.Username())
	require.NoError(t, h.sess.RequireAuth())

	decks, err := h.client.ListDecks(ctx, backend.Page{})
	require.NoError(t, err)
	assert.Empty(t, decks)

	claims, err := h.sess.Claims()
	require.NoError(t, err)
	assert.Equal(t, "anna", claims.Subject)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(time.Now().Add(2*time.Hour)))
}

func TestRegisterValidatesLocally(t *testing.T) {
	h := newHarness(t)

	_, err := h.sess.Register(context.Background(), h.client, domain.RegisterRequest{Username: "an", Email: "nope", Password: "123"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Zero(t, h.srv.Calls("POST", "/auth/register"))
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	h := newHarness(t)
	_, err := h.srv.AddUser("anna", "secret1")
	require.NoError(t, err)

	err = h.sess.Login(context.Background(), h.client, domain.Credentials{Username: "anna", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, backend.IsUnauthorized(err))
	assert.False(t, h.sess.Authenticated())
}

func TestTokenPersistsAcrossSessions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.srv.AddUser("anna", "secret1")
	require.NoError(t, err)
	require.NoError(t, h.sess.Login(ctx, h.client, domain.Credentials{Username: "anna", Password: "secret1"}))

	restored := session.New(h.store, nil)
	assert.False(t, restored.Authenticated())
	require.NoError(t, restored.Open(ctx))
	assert.True(t, restored.Authenticated())
	assert.Equal(t, "anna", restored.Username())

	token, err := restored.Token()
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.Type())
}

func TestLogoutClearsTokenForEveryHolder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.srv.AddUser("anna", "secret1")
	require.NoError(t, err)
	require.NoError(t, h.sess.Login(ctx, h.client, domain.Credentials{Username: "anna", Password: "secret1"}))

	other := session.New(h.store, nil)
	require.NoError(t, other.Open(ctx))
	require.NoError(t, other.Logout(ctx))

	assert.False(t, other.Authenticated())
	_, err = h.client.ListDecks(ctx, backend.Page{})
	require.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = other.Claims()
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestClaimsRejectsGarbage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.SetSetting(ctx, state.KeyAccessToken, "not-a-jwt"))
	require.NoError(t, h.sess.Open(ctx))

	_, err := h.sess.Claims()
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
