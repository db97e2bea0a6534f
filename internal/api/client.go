// Package api is the single chokepoint for storefront calls to the
// commerce API: one client attaches the bearer token, normalizes the error
// taxonomy, and resolves auth failures so no page repeats that logic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the current bearer token, empty when there is none.
type TokenSource interface {
	Token() string
}

// Client calls the commerce API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	// onAuthFailure runs once per 401/403 response. The decision to
	// invalidate is made here; the effect (clearing state, navigation)
	// is injected so it stays testable without a router.
	onAuthFailure func(ctx context.Context, status int)
}

// Config holds client dependencies.
type Config struct {
	BaseURL       string
	Tokens        TokenSource
	HTTPClient    *http.Client
	OnAuthFailure func(ctx context.Context, status int)
}

// NewClient constructs a commerce API client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api: base URL required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("api: token source required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	onAuthFailure := cfg.OnAuthFailure
	if onAuthFailure == nil {
		onAuthFailure = func(context.Context, int) {}
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    httpClient,
		tokens:        cfg.Tokens,
		onAuthFailure: onAuthFailure,
	}, nil
}

// Do issues an authenticated request. With no token present it fails with
// ErrUnauthenticated before touching the network. A 401 or 403 response
// triggers the auth-failure hook exactly once and maps to
// ErrUnauthorized/ErrForbidden; every other response, 2xx or not, is
// returned for the caller to interpret. Transport failures map to
// ErrNetwork. There is no automatic retry.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, ErrUnauthenticated)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: req.URL.String(), Err: err}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.onAuthFailure(ctx, resp.StatusCode)
		if resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("api: %s %s: %w", method, path, ErrForbidden)
		}
		return nil, fmt.Errorf("api: %s %s: %w", method, path, ErrUnauthorized)
	}
	return resp, nil
}

// doJSON runs an authenticated JSON request and decodes the response,
// mapping business-level statuses onto the error taxonomy.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	body, header, err := encodeJSON(payload)
	if err != nil {
		return err
	}
	resp, err := c.Do(ctx, method, path, body, header)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// DoPublic issues an unauthenticated request with the same surface as Do,
// so callers can switch between the two without other changes. No token is
// attached and auth statuses are not special-cased.
func (c *Client) DoPublic(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

// doPublicJSON runs an unauthenticated JSON request with the same error
// mapping, for the endpoints that work without a session.
func (c *Client) doPublicJSON(ctx context.Context, method, path string, payload, out any) error {
	body, header, err := encodeJSON(payload)
	if err != nil {
		return err
	}
	resp, err := c.DoPublic(ctx, method, path, body, header)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

func encodeJSON(payload any) (io.Reader, http.Header, error) {
	header := http.Header{}
	if payload == nil {
		return nil, header, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("api: encode request: %w", err)
	}
	header.Set("Content-Type", "application/json")
	return bytes.NewReader(data), header, nil
}

func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var errResp struct {
		Message string              `json:"message"`
		Error   string              `json:"error"`
		Code    string              `json:"code"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &ValidationError{Message: msg, Fields: errResp.Errors}
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
}
