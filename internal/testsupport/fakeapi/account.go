package fakeapi

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/amirgolp/flashcard/internal/domain"
)

const tokenLifetime = time.Hour

type deckRecord struct {
	domain.Deck
	cardIDs []string
}

type account struct {
	user         domain.User
	passwordHash []byte

	decks     map[string]*deckRecord
	deckOrder []string
	cards     map[string]*domain.Card
	cardOrder []string
	books     map[string]*domain.Book
	bookOrder []string
	bookSizes map[string]int64
	progress  map[string]*domain.BookProgress
	drafts    map[string]*domain.DraftCard
	draftSeq  []string
	vocabNext int

	storageType string
	telegramID  string
	quota       domain.StorageQuota
}

type accountKey struct{}

func (s *Server) newAccount(user domain.User, hash []byte) *account {
	quota := s.quota
	quota.UsedBytes = 0
	quota.FileCount = 0
	return &account{
		user:         user,
		passwordHash: hash,
		decks:        make(map[string]*deckRecord),
		cards:        make(map[string]*domain.Card),
		books:        make(map[string]*domain.Book),
		bookSizes:    make(map[string]int64),
		progress:     make(map[string]*domain.BookProgress),
		drafts:       make(map[string]*domain.DraftCard),
		quota:        quota,
	}
}

// AddUser registers an account directly and returns a valid token for it.
func (s *Server) AddUser(username, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[username]; !exists {
		user := domain.User{
			ID:          uuid.NewString(),
			Username:    username,
			Email:       username + "@example.com",
			DateCreated: s.now().UTC(),
		}
		s.accounts[username] = s.newAccount(user, hash)
	}
	return s.issueToken(username)
}

func (s *Server) issueToken(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var missing []string
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.user.Email, req.Email) {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	user := domain.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		Email:       req.Email,
		DateCreated: s.now().UTC(),
	}
	s.accounts[req.Username] = s.newAccount(user, hash)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	acct, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	token, err := s.issueToken(username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, domain.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(s.now))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		s.mu.Lock()
		acct, ok := s.accounts[claims.Subject]
		s.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, acct)))
	})
}

func accountFrom(r *http.Request) *account {
	return r.Context().Value(accountKey{}).(*account)
}

// Account-scoped seeding helpers for tests.

// SeedCard stores a card for username directly.
func (s *Server) SeedCard(username string, card domain.Card) domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[username]
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.HardnessLevel == "" {
		card.HardnessLevel = domain.DefaultHardness
	}
	now := s.now().UTC()
	card.DateCreated, card.LastEdited = now, now
	acct.putCard(&card)
	return card
}

// DraftStatus reports the status of a draft, for assertions.
func (s *Server) DraftStatus(username, id string) (domain.DraftStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.accounts[username].drafts[id]
	if !ok {
		return "", false
	}
	return d.Status, true
}

// SetUsage overrides the storage usage counters of an account.
func (s *Server) SetUsage(username string, usedBytes int64, files int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[username]
	acct.quota.UsedBytes = usedBytes
	acct.quota.FileCount = files
}

func (a *account) putCard(card *domain.Card) {
	if _, exists := a.cards[card.ID]; !exists {
		a.cardOrder = append(a.cardOrder, card.ID)
	}
	a.cards[card.ID] = card
}

func (a *account) removeCard(id string) {
	delete(a.cards, id)
	a.cardOrder = slices.DeleteFunc(a.cardOrder, func(v string) bool { return v == id })
	for _, deck := range a.decks {
		deck.cardIDs = slices.DeleteFunc(deck.cardIDs, func(v string) bool { return v == id })
	}
}

func (a *account) renderDeck(d *deckRecord) domain.Deck {
	out := d.Deck
	out.Cards = make([]domain.Card, 0, len(d.cardIDs))
	for _, id := range d.cardIDs {
		if c, ok := a.cards[id]; ok {
			out.Cards = append(out.Cards, *c)
		}
	}
	return out
}
