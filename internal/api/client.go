package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/edusenior/eduterm/pkg/errors"
)

// CredentialSource exposes the persisted bearer credential.
type CredentialSource interface {
	Token() (string, bool)
}

// CredentialStore additionally persists tokens after login.
type CredentialStore interface {
	CredentialSource
	Save(access, refresh string) error
}

// Client is the typed gateway to the catalog backend. It is stateless apart
// from its configuration: one method per server operation, at most one
// network attempt per call, no retries for GETs or mutations alike.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     CredentialStore
	validator *validator.Validate
	logger    *zap.Logger
}

// New constructs a client against the given base URL.
func New(baseURL string, timeout time.Duration, creds CredentialStore, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: timeout},
		creds:     creds,
		validator: validator.New(),
		logger:    logger,
	}
}

// do performs a single request. Authenticated calls fail fast with
// UNAUTHENTICATED before any request is issued when no credential exists.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, ok := c.creds.Token()
		if !ok {
			return appErrors.ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("transport failure", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return appErrors.Unreachable(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFrom(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, resp.StatusCode, "decode response body")
	}
	return nil
}

// errorFrom extracts the backend's {"detail": ...} error body, falling back
// to a message synthesized from the status line.
func (c *Client) errorFrom(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return appErrors.RequestFailed(resp.StatusCode, payload.Detail)
	}
	return appErrors.RequestFailed(resp.StatusCode,
		fmt.Sprintf("request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
}

func (c *Client) validate(payload any) error {
	if err := c.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	return nil
}
