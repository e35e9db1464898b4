package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amirgolp/flashcard/internal/domain"
)

// Login exchanges credentials for a bearer token. The form is
// application/x-www-form-urlencoded, matching the OAuth2 password flow.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	const path = "/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Token{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token domain.Token
	if err := c.send(ctx, c.anon, req, path, &token); err != nil {
		return domain.Token{}, fmt.Errorf("login: %w", err)
	}
	return token, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reqBody domain.RegisterRequest) (domain.User, error) {
	const path = "/auth/register"
	req, err := newJSONRequest(ctx, http.MethodPost, c.endpoint(path, nil), reqBody)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := c.send(ctx, c.anon, req, path, &user); err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	return user, nil
}
