package state_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/amirgolp/flashcard/internal/state"
	"github.com/amirgolp/flashcard/internal/testsupport"
)

func TestSettingsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenState(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.Setting(ctx, state.KeyAccessToken); err != nil || ok {
		t.Fatalf("expected missing token, got ok=%v err=%v", ok, err)
	}
	if err := store.SetSetting(ctx, state.KeyAccessToken, "first"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := store.SetSetting(ctx, state.KeyAccessToken, "second"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	value, ok, err := store.Setting(ctx, state.KeyAccessToken)
	if err != nil || !ok || value != "second" {
		t.Fatalf("Setting = %q, %v, %v; want second", value, ok, err)
	}

	if err := store.DeleteSettings(ctx, state.KeyAccessToken, state.KeyUsername); err != nil {
		t.Fatalf("DeleteSettings: %v", err)
	}
	if _, ok, _ := store.Setting(ctx, state.KeyAccessToken); ok {
		t.Fatal("expected token to be deleted")
	}
}

func TestSettingsSurviveReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := state.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.SetSetting(ctx, state.KeyUsername, "anna"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenState(t, cfg)
	value, ok, err := second.Setting(ctx, state.KeyUsername)
	if err != nil || !ok || value != "anna" {
		t.Fatalf("after reopen Setting = %q, %v, %v", value, ok, err)
	}
}

func TestStudyPositions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenState(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.StudyPosition(ctx, "deck-1"); err != nil || ok {
		t.Fatalf("expected no position, got ok=%v err=%v", ok, err)
	}
	if err := store.SetStudyPosition(ctx, "deck-1", 3); err != nil {
		t.Fatalf("SetStudyPosition: %v", err)
	}
	if err := store.SetStudyPosition(ctx, "deck-1", 4); err != nil {
		t.Fatalf("SetStudyPosition update: %v", err)
	}
	if err := store.SetStudyPosition(ctx, "deck-2", 0); err != nil {
		t.Fatalf("SetStudyPosition deck-2: %v", err)
	}
	pos, ok, err := store.StudyPosition(ctx, "deck-1")
	if err != nil || !ok || pos != 4 {
		t.Fatalf("StudyPosition = %d, %v, %v; want 4", pos, ok, err)
	}
	if err := store.SetStudyPosition(ctx, "deck-1", -1); err == nil {
		t.Fatal("expected negative position to be rejected")
	}

	n, err := store.ClearStudyPositions(ctx)
	if err != nil {
		t.Fatalf("ClearStudyPositions: %v", err)
	}
	if n != 2 {
		t.Fatalf("cleared %d positions, want 2", n)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := state.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	path := store.Path()
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := state.Open(ctx, cfg); !errors.Is(err, state.ErrSchemaTooNew) {
		t.Fatalf("expected ErrSchemaTooNew, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		store, err := state.Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		store.Close()
	}

	db, err := sql.Open("sqlite", cfg.StatePath())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != 1 {
		t.Fatalf("user_version = %d, want 1", version)
	}
}
