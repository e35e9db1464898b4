// Package session owns the bearer token: it logs in against the backend,
// persists the token in the local state store, and hands it to the HTTP
// client on every authenticated request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/state"
)

// ErrNotAuthenticated is returned when an operation needs a login.
var ErrNotAuthenticated = errors.New("not logged in (run 'flashcard login')")

// Store is the persistence the session needs.
type Store interface {
	Setting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSettings(ctx context.Context, keys ...string) error
}

// Authenticator exchanges credentials with the backend.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.Token, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error)
}

var _ Store = (*state.Store)(nil)

// Session tracks whether the user is logged in. It implements
// oauth2.TokenSource so a client built with it sends the stored token.
type Session struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	token    string
	username string
}

var _ oauth2.TokenSource = (*Session)(nil)

// New returns a logged-out session over store. Call Open to pick up a
// previously saved token.
func New(store Store, logger *slog.Logger) *Session {
	return &Session{store: store, logger: logging.NewComponentLogger(logger, "session")}
}

// Open loads the saved token, if any.
func (s *Session) Open(ctx context.Context) error {
	token, _, err := s.store.Setting(ctx, state.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	username, _, err := s.store.Setting(ctx, state.KeyUsername)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.username = username
	s.mu.Unlock()
	return nil
}

// Login exchanges credentials for a token and saves it.
func (s *Session) Login(ctx context.Context, auth Authenticator, creds domain.Credentials) error {
	if err := domain.Validate(creds); err != nil {
		return err
	}
	token, err := auth.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return errors.New("login: backend returned an empty token")
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	settings := []struct{ key, value string }{
		{state.KeyAccessToken, token.AccessToken},
		{state.KeyTokenType, tokenType},
		{state.KeyUsername, creds.Username},
	}
	for _, setting := range settings {
		if err := s.store.SetSetting(ctx, setting.key, setting.value); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	s.mu.Lock()
	s.token = token.AccessToken
	s.username = creds.Username
	s.mu.Unlock()
	s.logger.Info("logged in", logging.String("username", creds.Username))
	return nil
}

// Register creates the account and logs straight into it.
func (s *Session) Register(ctx context.Context, auth Authenticator, req domain.RegisterRequest) (domain.User, error) {
	if err := domain.Validate(req); err != nil {
		return domain.User{}, err
	}
	user, err := auth.Register(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Login(ctx, auth, domain.Credentials{Username: req.Username, Password: req.Password}); err != nil {
		return user, fmt.Errorf("registered %s but login failed: %w", req.Username, err)
	}
	return user, nil
}

// Logout clears the saved token.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.DeleteSettings(ctx, state.KeyAccessToken, state.KeyTokenType, state.KeyUsername); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()
	s.logger.Info("logged out")
	return nil
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Username returns the name used at login.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// RequireAuth gates commands that need a login.
func (s *Session) RequireAuth() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Token implements oauth2.TokenSource. The token is read from the store on
// every call so a logout from another process takes effect immediately.
func (s *Session) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	access, ok, err := s.store.Setting(ctx, state.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if !ok || access == "" {
		return nil, ErrNotAuthenticated
	}
	tokenType, _, err := s.store.Setting(ctx, state.KeyTokenType)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	// oauth2.Token.Type normalizes "bearer" to "Bearer" for the header.
	return &oauth2.Token{AccessToken: access, TokenType: tokenType}, nil
}

// Claims is the displayable part of the token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim has passed. Tokens without
// an exp claim never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the token payload without verifying the signature. It is
// for display only; the backend remains the authority on validity.
func (s *Session) Claims() (Claims, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return Claims{}, ErrNotAuthenticated
	}
	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	claims := Claims{Subject: registered.Subject}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
