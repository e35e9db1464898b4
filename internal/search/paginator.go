package search

import (
	"context"
	"strings"
	"sync"

	"github.com/amirgolp/flashcard/internal/domain"
)

// PageFunc fetches one page of results for query starting at cursor.
type PageFunc func(ctx context.Context, query, cursor string, limit int) (domain.SearchPage, error)

// Paginator accumulates search results across cursor pages.
type Paginator struct {
	fetch PageFunc
	limit int

	mu      sync.Mutex
	query   string
	cursor  string
	gen     uint64
	done    bool
	pages   int
	results []domain.Card
	seen    map[string]struct{}
}

// NewPaginator returns a paginator for query. A blank query is done from the
// start.
func NewPaginator(fetch PageFunc, query string, limit int) *Paginator {
	p := &Paginator{fetch: fetch, limit: limit}
	p.Reset(query)
	return p
}

// Reset starts over with a new query.
func (p *Paginator) Reset(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = strings.TrimSpace(query)
	p.cursor = ""
	p.gen++
	p.done = p.query == ""
	p.pages = 0
	p.results = nil
	p.seen = make(map[string]struct{})
}

// Query returns the query being paged.
func (p *Paginator) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Done reports whether the last page has been fetched.
func (p *Paginator) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Pages returns how many pages have been fetched.
func (p *Paginator) Pages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pages
}

// Results returns every card fetched so far.
func (p *Paginator) Results() []domain.Card {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Card(nil), p.results...)
}

// Next fetches the following page and returns the cards it added. The first
// call sends no cursor; later calls send the cursor from the previous page.
// Once a page comes back without a cursor, Next returns nil without a request.
// A page that arrives after Reset is dropped.
func (p *Paginator) Next(ctx context.Context) ([]domain.Card, error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil, nil
	}
	query, cursor, gen := p.query, p.cursor, p.gen
	p.mu.Unlock()

	page, err := p.fetch(ctx, query, cursor, p.limit)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen || p.cursor != cursor || p.done {
		return nil, nil
	}
	added := make([]domain.Card, 0, len(page.Results))
	for _, c := range page.Results {
		if _, dup := p.seen[c.ID]; dup {
			continue
		}
		p.seen[c.ID] = struct{}{}
		added = append(added, c)
	}
	p.results = append(p.results, added...)
	p.pages++
	p.cursor = page.NextCursor
	p.done = page.NextCursor == ""
	return added, nil
}

// All fetches pages until the last one or until maxPages pages have been
// fetched in total. A maxPages of zero or less means no limit.
func (p *Paginator) All(ctx context.Context, maxPages int) ([]domain.Card, error) {
	for !p.Done() {
		if maxPages > 0 && p.Pages() >= maxPages {
			break
		}
		if _, err := p.Next(ctx); err != nil {
			return p.Results(), err
		}
	}
	return p.Results(), nil
}
