package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/services"
	"github.com/amirgolp/flashcard/internal/services/telegram"
)

func fakeBotAPI(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasPrefix(r.URL.Path, "/bot123:good/") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":123,"is_bot":true,"first_name":"Relay","username":"relay_bot"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestStorageTelegramVerifiesToken(t *testing.T) {
	env := setupCLITestEnv(t)
	bot, botCalls := fakeBotAPI(t)
	env.rootOpts = []rootOption{withTelegramOptions(telegram.WithServerURL(bot.URL))}
	env.login(t)

	requireContains(t, env.mustRun(t, "storage", "show"), "not configured")

	_, err := env.run(t, "storage", "telegram", "--token", "123:bad", "--user", "42")
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected a rejected token, got %v", err)
	}
	requireContains(t, err.Error(), "--no-verify")
	if calls := env.srv.Calls(http.MethodPost, "/storage/configure/telegram"); calls != 0 {
		t.Fatalf("unverified token reached the backend %d times", calls)
	}

	if _, err := env.run(t, "storage", "telegram", "--token", "123:good"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error without --user, got %v", err)
	}

	out := env.mustRun(t, "storage", "telegram", "--token", "123:good", "--user", "42")
	requireContains(t, out, "Verified bot @relay_bot")
	requireContains(t, out, "Telegram storage configured successfully")

	before := botCalls.Load()
	env.mustRun(t, "storage", "telegram", "--token", "999:unchecked", "--user", "42", "--no-verify")
	if botCalls.Load() != before {
		t.Fatal("--no-verify still called the Bot API")
	}

	out = env.mustRun(t, "storage", "show")
	requireContains(t, out, "Telegram")
	requireContains(t, out, "free")
}

func TestStorageDisconnectRefusedWhileBooksStored(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	env.mustRun(t, "storage", "telegram", "--token", "1:x", "--user", "42", "--no-verify")
	book := uploadBook(t, env, "stored.pdf")

	_, err := env.run(t, "storage", "disconnect")
	if !errors.Is(err, api.ErrStorageInUse) {
		t.Fatalf("expected storage in use, got %v", err)
	}
	requireContains(t, err.Error(), "delete 1 file(s) first")
	if calls := env.srv.Calls(http.MethodPost, "/storage/disconnect"); calls != 0 {
		t.Fatalf("refused disconnect reached the backend %d times", calls)
	}

	env.mustRun(t, "books", "delete", book.ID)
	requireContains(t, env.mustRun(t, "storage", "disconnect"), "Storage disconnected successfully")
}

func TestStorageGoogleDrive(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	var auth domain.GoogleDriveAuth
	env.mustRunJSON(t, &auth, "storage", "gdrive")
	if !strings.HasPrefix(auth.AuthorizationURL, "http") {
		t.Fatalf("unexpected authorization url %q", auth.AuthorizationURL)
	}
}
