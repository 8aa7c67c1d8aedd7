// Package mcp is the Go client for the model control plane HTTP API.
//
// A Client talks to one server and one workspace:
//
//	client, err := mcp.New("http://localhost:8080", mcp.WithWorkspace(workspaceID))
//	if err != nil {
//	    return err
//	}
//	version, err := client.GetModelVersion(ctx, "churn-predictor", "production")
//
// Models and model versions are addressed by reference strings: a UUID,
// a name, a version number, a stage, or "latest". Server-side failures
// come back as *APIError carrying the HTTP status code.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiPrefix         = "/api/v1"
	headerWorkspaceID = "X-Workspace-ID"

	defaultTimeout = 30 * time.Second

	// error bodies are small JSON envelopes; cap reads anyway
	maxErrorBody = 64 << 10
)

// Client is an HTTP client for the model control plane API.
// It is safe for concurrent use.
type Client struct {
	baseURL     string
	workspaceID string
	httpClient  *http.Client
}

// Option configures a Client during construction.
type Option func(*Client) error

// WithWorkspace sets the workspace every request is scoped to.
func WithWorkspace(id string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(id) == "" {
			return errors.New("workspace id cannot be empty")
		}
		c.workspaceID = strings.TrimSpace(id)
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client, for custom
// transports or test doubles.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithTimeout sets the per-request timeout. Defaults to 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.httpClient.Timeout = d
		return nil
	}
}

// New builds a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("mcp: server base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("mcp: invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("mcp: %w", err)
		}
	}
	return c, nil
}

// BaseURL returns the server base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Workspace returns the workspace ID applied to requests, if any.
func (c *Client) Workspace() string { return c.workspaceID }

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mcp: server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is an APIError with status 409.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// do runs one API request. path is relative to /api/v1 and must start
// with a slash. body and out may be nil; out is filled from the JSON
// response when the status is 2xx.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mcp: encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("mcp: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.workspaceID != "" {
		req.Header.Set(headerWorkspaceID, c.workspaceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mcp: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mcp: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(raw, &envelope); jsonErr == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// escape makes a reference safe to use as one path segment.
func escape(ref string) string {
	return url.PathEscape(ref)
}
