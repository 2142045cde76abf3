package api

import (
	"context"
	"net/http"

	"github.com/edusenior/eduterm/internal/models"
)

// Register creates a platform account. No credential is required.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	var profile models.Profile
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &profile, false); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login exchanges credentials for tokens and persists them on success.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.validate(req); err != nil {
		return nil, err
	}
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &pair, false); err != nil {
		return nil, err
	}
	if err := c.creds.Save(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Me resolves the current user's profile, including the numeric identity
// used for ownership checks.
func (c *Client) Me(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}
