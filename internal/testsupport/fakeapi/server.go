package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amirgolp/flashcard/internal/domain"
)

const (
	defaultSearchLimit = 10
	defaultDraftLimit  = 50
	defaultListLimit   = 100
	defaultPages       = 120
)

// Vocab is one entry generation draws from.
type Vocab struct {
	Front string
	Back  string
	POS   string
}

// DefaultVocabulary is cycled through by generation requests.
var DefaultVocabulary = []Vocab{
	{Front: "Hund", Back: "dog", POS: "noun"},
	{Front: "Katze", Back: "cat", POS: "noun"},
	{Front: "Vogel", Back: "bird", POS: "noun"},
	{Front: "Pferd", Back: "horse", POS: "noun"},
	{Front: "laufen", Back: "to run", POS: "verb"},
	{Front: "schnell", Back: "fast", POS: "adjective"},
}

type fault struct {
	status int
	detail string
}

// Server is the fake backend. Create it with New or Start.
type Server struct {
	// URL is set by Start.
	URL string

	secret     []byte
	vocabulary []Vocab
	pages      int
	quota      domain.StorageQuota
	now        func() time.Time

	mu       sync.Mutex
	accounts map[string]*account
	faults   map[string][]fault
	calls    map[string]int
	gate     chan struct{}
	gateKey  string
}

// Option configures a Server.
type Option func(*Server)

// WithVocabulary replaces the generation vocabulary.
func WithVocabulary(words []Vocab) Option {
	return func(s *Server) {
		if len(words) > 0 {
			s.vocabulary = words
		}
	}
}

// WithBookPages sets the page count assigned to uploaded books.
func WithBookPages(pages int) Option {
	return func(s *Server) {
		if pages > 0 {
			s.pages = pages
		}
	}
}

// WithQuota sets the storage limits for new accounts.
func WithQuota(maxBytes int64, maxFiles int) Option {
	return func(s *Server) {
		s.quota.MaxBytes = maxBytes
		s.quota.MaxFiles = maxFiles
	}
}

// WithClock overrides the server clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server without starting it.
func New(opts ...Option) *Server {
	s := &Server{
		secret:     []byte("fakeapi-signing-key-0123456789abcdef"),
		vocabulary: DefaultVocabulary,
		pages:      defaultPages,
		quota: domain.StorageQuota{
			MaxBytes:         100 << 20,
			MaxFiles:         5,
			SubscriptionTier: "free",
		},
		now:      time.Now,
		accounts: make(map[string]*account),
		faults:   make(map[string][]fault),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs a Server on a local httptest listener for the duration of t.
func Start(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	s.URL = ts.URL
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.track)

	r.Post("/auth/register", s.register)
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.listDecks)
			r.Post("/", s.createDeck)
			r.Get("/{id}", s.getDeck)
			r.Put("/{id}", s.updateDeck)
			r.Delete("/{id}", s.deleteDeck)
		})
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.listCards)
			r.Post("/", s.createCard)
			r.Get("/{id}", s.getCard)
			r.Put("/{id}", s.updateCard)
			r.Delete("/{id}", s.deleteCard)
		})
		r.Get("/search/cards", s.searchCards)
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.listBooks)
			r.Post("/", s.uploadBook)
			r.Get("/{id}", s.getBook)
			r.Put("/{id}", s.updateBook)
			r.Delete("/{id}", s.deleteBook)
			r.Get("/{id}/progress", s.getProgress)
			r.Put("/{id}/progress", s.updateProgress)
			r.Put("/{id}/chapters", s.updateChapters)
		})
		r.Route("/generate", func(r chi.Router) {
			r.Post("/next-batch", s.generateNext)
			r.Post("/from-range", s.generateRange)
			r.Get("/drafts", s.listDrafts)
			r.Post("/drafts/bulk-approve", s.bulkApprove)
			r.Delete("/drafts/rejected", s.purgeRejected)
			r.Put("/drafts/{id}", s.updateDraft)
			r.Post("/drafts/{id}/approve", s.approveDraft)
			r.Post("/drafts/{id}/reject", s.rejectDraft)
		})
		r.Route("/storage", func(r chi.Router) {
			r.Get("/config", s.storageConfig)
			r.Get("/quota", s.storageQuota)
			r.Post("/configure/telegram", s.configureTelegram)
			r.Get("/configure/google-drive/auth", s.googleDriveAuth)
			r.Post("/disconnect", s.disconnect)
		})
	})
	return r
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Calls reports how many requests reached method and path, e.g.
// Calls(http.MethodGet, "/decks/").
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, path)]
}

// Fail makes the next request to method and path answer with status and
// detail instead of being served. Calls queue up.
func (s *Server) Fail(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, path)
	s.faults[key] = append(s.faults[key], fault{status: status, detail: detail})
}

// Hold blocks requests to method and path until the returned release func is
// called. Only one route can be held at a time.
func (s *Server) Hold(method, path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	s.gateKey = routeKey(method, path)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gate == gate {
				s.gate = nil
				s.gateKey = ""
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, r.URL.Path)
		s.mu.Lock()
		s.calls[key]++
		var injected *fault
		if queue := s.faults[key]; len(queue) > 0 {
			injected = &queue[0]
			s.faults[key] = queue[1:]
		}
		var gate chan struct{}
		if s.gateKey == key {
			gate = s.gate
		}
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if injected != nil {
			writeDetail(w, injected.status, injected.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeMissing answers like a request-model validation failure.
func writeMissing(w http.ResponseWriter, fields ...string) {
	issues := make([]validationIssue, 0, len(fields))
	for _, f := range fields {
		issues = append(issues, validationIssue{Loc: []string{"body", f}, Msg: "field required", Type: "value_error.missing"})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// window applies skip/limit to a slice.
func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
