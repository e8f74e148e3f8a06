package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// Login posts the OAuth2 password form. The email is sent as "username".
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok tokenWire
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login",
		endpoint:  "auth.login",
		form:      form,
		anonymous: true,
	}, &tok)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("auth.login: %w: empty access token", domain.ErrUnauthorized)
	}
	return tok.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var w userWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", endpoint: "auth.me"}, &w); err != nil {
		return nil, err
	}
	return toIdentity(w), nil
}

// UpdateMe sends display_name and, when set, password. Nothing else is sent.
func (c *Client) UpdateMe(ctx context.Context, in ports.ProfileUpdate) (*domain.Identity, error) {
	var w userWire
	err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     "/auth/me",
		endpoint: "auth.update_me",
		body:     profileWire{DisplayName: in.DisplayName, Password: in.Password},
	}, &w)
	if err != nil {
		return nil, err
	}
	return toIdentity(w), nil
}

func (c *Client) Signup(ctx context.Context, in ports.SignupInput) (*domain.Identity, error) {
	var w userWire
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/signup",
		endpoint:  "auth.signup",
		body:      toSignupWire(in),
		anonymous: true,
	}, &w)
	if err != nil {
		return nil, err
	}
	return toIdentity(w), nil
}
