package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/query"
	"github.com/amirgolp/flashcard/internal/search"
	"github.com/amirgolp/flashcard/internal/testsupport/fakeapi"
)

type scripted struct {
	pages   map[string]domain.SearchPage
	cursors []string
}

func (s *scripted) fetch(_ context.Context, _ string, cursor string, _ int) (domain.SearchPage, error) {
	s.cursors = append(s.cursors, cursor)
	page, ok := s.pages[cursor]
	if !ok {
		return domain.SearchPage{}, errors.New("unexpected cursor " + cursor)
	}
	return page, nil
}

func cards(ids ...string) []domain.Card {
	out := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Card{ID: id, Front: id})
	}
	return out
}

func ids(cs []domain.Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestPaginatorFollowsCursorsUntilAbsent(t *testing.T) {
	src := &scripted{pages: map[string]domain.SearchPage{
		"":   {Results: cards("a", "b"), NextCursor: "c1"},
		"c1": {Results: cards("c", "b"), NextCursor: "c2"},
		"c2": {Results: cards("d")},
	}}
	p := search.NewPaginator(src.fetch, "x", 2)
	ctx := context.Background()

	added, err := p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(added))

	added, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(added))
	assert.False(t, p.Done())

	added, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, ids(added))
	assert.True(t, p.Done())

	added, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, added)
	assert.Equal(t, []string{"", "c1", "c2"}, src.cursors)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(p.Results()))
}

func TestPaginatorBlankQueryNeverFetches(t *testing.T) {
	src := &scripted{}
	p := search.NewPaginator(src.fetch, "  ", 10)

	results, err := p.All(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, src.cursors)
}

func TestPaginatorAllHonoursPageCap(t *testing.T) {
	src := &scripted{pages: map[string]domain.SearchPage{
		"":   {Results: cards("a"), NextCursor: "c1"},
		"c1": {Results: cards("b"), NextCursor: "c2"},
	}}
	p := search.NewPaginator(src.fetch, "x", 1)

	results, err := p.All(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(results))
	assert.False(t, p.Done())
	assert.Equal(t, 2, p.Pages())
}

func TestPaginatorResetStartsOver(t *testing.T) {
	src := &scripted{pages: map[string]domain.SearchPage{
		"": {Results: cards("a"), NextCursor: "c1"},
	}}
	p := search.NewPaginator(src.fetch, "x", 1)
	ctx := context.Background()

	_, err := p.Next(ctx)
	require.NoError(t, err)
	p.Reset("y")
	assert.Equal(t, "y", p.Query())
	assert.Empty(t, p.Results())

	_, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, src.cursors)
}

func TestPaginatorAgainstBackend(t *testing.T) {
	srv := fakeapi.Start(t)
	client := srv.NewClient(t, "anna")
	for _, front := range []string{"Hund", "Hundehütte", "Hündin", "Katze", "Hundeleine"} {
		srv.SeedCard("anna", domain.Card{Front: front, Back: "-"})
	}
	cache, err := query.New(query.Options{FreshFor: time.Minute})
	require.NoError(t, err)
	svc := api.NewService(client, cache, api.Options{})

	p := search.NewPaginator(svc.SearchCards, "hund", 2)
	results, err := p.All(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, p.Done())
	assert.Equal(t, 2, p.Pages())

	fronts := make([]string, 0, len(results))
	for _, c := range results {
		fronts = append(fronts, c.Front)
	}
	assert.Equal(t, []string{"Hund", "Hundehütte", "Hundeleine"}, fronts)
}
