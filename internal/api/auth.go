package api

import (
	"context"
	"net/http"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// Signup creates an account. When the backend requires email confirmation
// the response carries no access token.
func (c *Client) Signup(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	body, err := jsonBody(creds)
	if err != nil {
		return nil, err
	}
	var out models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: PathSignup, body: body, contentType: "application/json"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and, on success, stores the returned token on c.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	body, err := jsonBody(creds)
	if err != nil {
		return nil, err
	}
	var out models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: PathLogin, body: body, contentType: "application/json"}, &out); err != nil {
		return nil, err
	}
	if out.AccessToken != "" {
		c.token = out.AccessToken
	}
	return &out, nil
}

// Logout ends the session on the backend and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodPost, path: PathLogout, auth: true}, nil)
	c.token = ""
	return err
}
