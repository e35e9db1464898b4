package main

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/review"
	"github.com/amirgolp/flashcard/internal/testsupport"
	"github.com/amirgolp/flashcard/internal/testsupport/fakeapi"
)

func uploadBook(t *testing.T, env *cliTestEnv, name string) domain.Book {
	t.Helper()
	path := filepath.Join(env.baseDir, "books", name)
	testsupport.WritePDF(t, path, 4096)
	var book domain.Book
	env.mustRunJSON(t, &book, "books", "upload", path, "--target", "de", "--native", "en")
	return book
}

func TestBookUploadAndProgress(t *testing.T) {
	env := setupCLITestEnv(t, fakeapi.WithBookPages(40))
	env.login(t)

	book := uploadBook(t, env, "deutsch_fuer_anfaenger.pdf")
	if book.TotalPages != 40 {
		t.Fatalf("unexpected page count %d", book.TotalPages)
	}
	if !strings.Contains(strings.ToLower(book.Title), "deutsch") {
		t.Fatalf("title should come from the file name, got %q", book.Title)
	}

	out := env.mustRun(t, "books", "list")
	requireContains(t, out, book.ID)
	requireContains(t, out, "de -> en")

	requireContains(t, env.mustRun(t, "books", "progress", book.ID), "Current page: 1")
	requireContains(t, env.mustRun(t, "books", "progress", book.ID, "--page", "12", "--chapter", "Kapitel 2"), "Current page: 12")

	out = env.mustRun(t, "books", "show", book.ID)
	requireContains(t, out, "page 12")
	requireContains(t, out, "Kapitel 2")

	requireContains(t, env.mustRun(t, "books", "update", book.ID, "--title", "Deutsch A1"), "Updated book Deutsch A1")

	requireContains(t, env.mustRun(t, "storage", "quota"), "1 of 5 files")
	env.mustRun(t, "books", "delete", book.ID)
	requireContains(t, env.mustRun(t, "books", "list"), "No books")
	requireContains(t, env.mustRun(t, "storage", "quota"), "0 of 5 files")
}

func TestBookUploadRejectsNonPDFLocally(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	path := filepath.Join(env.baseDir, "notes.pdf")
	testsupport.WriteFile(t, path, 128)
	if _, err := env.run(t, "books", "upload", path); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for a non-PDF, got %v", err)
	}
	if calls := env.srv.Calls(http.MethodPost, "/books/"); calls != 0 {
		t.Fatalf("rejected upload reached the backend %d times", calls)
	}
}

func TestBookChapters(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	book := uploadBook(t, env, "grammar.pdf")

	requireContains(t, env.mustRun(t, "books", "chapters", book.ID), "No chapters")

	out := env.mustRun(t, "books", "chapters", book.ID,
		"--chapter", "Einleitung:1-10",
		"--chapter", "Tiere: Teil 1:11-20",
		"--chapter", "Überlappung:5-15",
	)
	requireContains(t, out, "Einleitung")
	requireContains(t, out, "Tiere: Teil 1")
	requireContains(t, out, "Überlappung")

	var chapters []domain.Chapter
	env.mustRunJSON(t, &chapters, "books", "chapters", book.ID)
	if len(chapters) != 3 || chapters[1].StartPage != 11 || chapters[1].EndPage != 20 {
		t.Fatalf("unexpected chapters %+v", chapters)
	}
}

func TestParseChapter(t *testing.T) {
	ch, err := parseChapter("Kapitel 3: Essen:30-42")
	if err != nil {
		t.Fatalf("parseChapter: %v", err)
	}
	if ch.Name != "Kapitel 3: Essen" || ch.StartPage != 30 || ch.EndPage != 42 {
		t.Fatalf("unexpected chapter %+v", ch)
	}
	for _, bad := range []string{"", "no-range", "Name:1", "Name:a-2", "Name:1-b", ":1-2"} {
		if _, err := parseChapter(bad); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestGenerateReviewFlow(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	book := uploadBook(t, env, "animals.pdf")

	var deck domain.Deck
	env.mustRunJSON(t, &deck, "decks", "create", "Animals")

	var res domain.GenerationResult
	env.mustRunJSON(t, &res, "generate", "next", book.ID, "--pages", "5", "--cards", "3")
	if len(res.Drafts) != 3 || res.PagesProcessed.Start != 1 || res.PagesProcessed.End != 5 {
		t.Fatalf("unexpected generation result %+v", res)
	}
	requireContains(t, env.mustRun(t, "books", "progress", book.ID), "Current page: 6")

	out := env.mustRun(t, "drafts", "list", "--book", book.ID)
	requireContains(t, out, "Hund")
	requireContains(t, out, "Katze")
	requireContains(t, out, "Vogel")

	hund := res.Drafts[0]
	requireContains(t, env.mustRun(t, "drafts", "edit", hund.ID, "--back", "the dog"), "Hund = the dog")
	requireContains(t, env.mustRun(t, "drafts", "reject", res.Drafts[2].ID), "Draft rejected")

	if _, err := env.run(t, "drafts", "bulk-approve"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error without ids, got %v", err)
	}
	if _, err := env.run(t, "drafts", "bulk-approve", res.Drafts[2].ID); !errors.Is(err, review.ErrNotPending) {
		t.Fatalf("expected rejected draft to be unselectable, got %v", err)
	}

	out = env.mustRun(t, "drafts", "bulk-approve", "--all-pending", "--book", book.ID, "--deck", deck.ID)
	requireContains(t, out, "Approved 2 drafts")
	for _, d := range res.Drafts[:2] {
		if status, _ := env.srv.DraftStatus(testUser, d.ID); status != domain.DraftApproved {
			t.Fatalf("draft %s is %s, want approved", d.Front, status)
		}
	}
	requireContains(t, env.mustRun(t, "drafts", "list", "--book", book.ID), "No pending drafts")
	requireContains(t, env.mustRun(t, "drafts", "list", "--status", "approved"), "the dog")
	requireContains(t, env.mustRun(t, "decks", "show", deck.ID), "Hund")

	if _, err := env.run(t, "drafts", "bulk-approve", "--all-pending"); !errors.Is(err, review.ErrNothingSelected) {
		t.Fatalf("expected nothing selected, got %v", err)
	}

	requireContains(t, env.mustRun(t, "drafts", "purge", "--book", book.ID), "Deleted 1 rejected drafts")
}

func TestDraftsBeyondFirstBackendPage(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	book := uploadBook(t, env, "animals.pdf")

	var ids []string
	for _, n := range []string{"50", "10"} {
		var res domain.GenerationResult
		env.mustRunJSON(t, &res, "generate", "next", book.ID, "--pages", "5", "--cards", n)
		for _, d := range res.Drafts {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) != 60 {
		t.Fatalf("generated %d drafts, want 60", len(ids))
	}

	var all []domain.DraftCard
	env.mustRunJSON(t, &all, "drafts", "list", "--book", book.ID)
	if len(all) != 60 {
		t.Fatalf("listed %d drafts, want 60", len(all))
	}
	var window []domain.DraftCard
	env.mustRunJSON(t, &window, "drafts", "list", "--book", book.ID, "--skip", "55", "--limit", "3")
	if len(window) != 3 || window[0].ID != ids[55] || window[2].ID != ids[57] {
		t.Fatalf("unexpected window %+v", window)
	}
	if _, err := env.run(t, "drafts", "list", "--limit", "-1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative limit, got %v", err)
	}

	last := ids[len(ids)-1]
	requireContains(t, env.mustRun(t, "drafts", "bulk-approve", last), "Approved 1 draft")
	if status, _ := env.srv.DraftStatus(testUser, last); status != domain.DraftApproved {
		t.Fatalf("draft %s is %s, want approved", last, status)
	}

	requireContains(t, env.mustRun(t, "drafts", "bulk-approve", "--all-pending", "--book", book.ID), "Approved 59 drafts")
	requireContains(t, env.mustRun(t, "drafts", "list", "--book", book.ID), "No pending drafts")
}

func TestGenerateRangeAndSingleApprove(t *testing.T) {
	env := setupCLITestEnv(t, fakeapi.WithBookPages(30))
	env.login(t)
	book := uploadBook(t, env, "range.pdf")

	if _, err := env.run(t, "generate", "range", book.ID, "10", "5"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for a reversed range, got %v", err)
	}
	if _, err := env.run(t, "generate", "range", book.ID, "ten", "12"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for a non-numeric page, got %v", err)
	}
	if calls := env.srv.Calls(http.MethodPost, "/generate/from-range"); calls != 0 {
		t.Fatalf("invalid ranges reached the backend %d times", calls)
	}

	out := env.mustRun(t, "generate", "range", book.ID, "10", "12", "--cards", "1")
	requireContains(t, out, "1 draft from pages 10-12")

	var drafts []domain.DraftCard
	env.mustRunJSON(t, &drafts, "drafts", "list", "--book", book.ID)
	if len(drafts) != 1 {
		t.Fatalf("expected one pending draft, got %d", len(drafts))
	}
	requireContains(t, env.mustRun(t, "drafts", "approve", drafts[0].ID), "Approved Hund")
	if _, err := env.run(t, "drafts", "approve", drafts[0].ID); err == nil {
		t.Fatal("approving twice should fail")
	}
}

func TestGenerateHonoursBookLock(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	book := uploadBook(t, env, "locked.pdf")

	lockPath := env.cfg.LockPath(book.ID)
	testsupport.WriteFile(t, lockPath, 1)
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}

	_, err = env.run(t, "generate", "next", book.ID)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock conflict, got %v", err)
	}
	if calls := env.srv.Calls(http.MethodPost, "/generate/next-batch"); calls != 0 {
		t.Fatalf("locked generation reached the backend %d times", calls)
	}

	if err := held.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	requireContains(t, env.mustRun(t, "generate", "next", book.ID, "--cards", "2"), "2 drafts")
}
