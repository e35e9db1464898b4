package fakeapi

import (
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/amirgolp/flashcard/internal/backend"
)

// DefaultPassword is used by NewClient when it creates the account.
const DefaultPassword = "correct-horse"

// NewClient returns a backend client logged in as username, creating the
// account when needed. The server must have been started with Start.
func (s *Server) NewClient(t testing.TB, username string, opts ...backend.Option) *backend.Client {
	t.Helper()
	if s.URL == "" {
		t.Fatal("fakeapi: server not started")
	}
	token, err := s.AddUser(username, DefaultPassword)
	if err != nil {
		t.Fatalf("fakeapi: add user: %v", err)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "bearer"})
	opts = append([]backend.Option{backend.WithTokenSource(src)}, opts...)
	client, err := backend.NewClient(backend.Config{BaseURL: s.URL, Timeout: 5 * time.Second}, opts...)
	if err != nil {
		t.Fatalf("fakeapi: new client: %v", err)
	}
	return client
}

// NewAnonymousClient returns a client without credentials.
func (s *Server) NewAnonymousClient(t testing.TB) *backend.Client {
	t.Helper()
	client, err := backend.NewClient(backend.Config{BaseURL: s.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("fakeapi: new client: %v", err)
	}
	return client
}
