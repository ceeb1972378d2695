// Package client talks to a TinyLink server over its JSON API.
package client

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

	"github.com/mikepea/tinylink/pkg/tinylink/importexport"
	"github.com/mikepea/tinylink/pkg/tinylink/links"
	"github.com/mikepea/tinylink/pkg/tinylink/models"
)

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Client is a TinyLink API client
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithToken sends token as a bearer credential
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Create shortens target; an empty code lets the server pick one
func (c *Client) Create(ctx context.Context, target, code string) (*links.CreatedLink, error) {
	var created links.CreatedLink
	req := links.CreateLinkRequest{URL: target, Code: code}
	if err := c.do(ctx, http.MethodPost, "/api/links", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns every link, newest first
func (c *Client) List(ctx context.Context) ([]models.Link, error) {
	var out []models.Link
	if err := c.do(ctx, http.MethodGet, "/api/links", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the stats for one code
func (c *Client) Get(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	if err := c.do(ctx, http.MethodGet, "/api/links/"+url.PathEscape(code), nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes a code
func (c *Client) Delete(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "/api/links/"+url.PathEscape(code), nil, nil)
}

// Login exchanges the admin password for a bearer token
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"password": password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Export downloads every link with its statistics
func (c *Client) Export(ctx context.Context) ([]importexport.ExportedLink, error) {
	var out []importexport.ExportedLink
	if err := c.do(ctx, http.MethodGet, "/api/export", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Import restores previously exported links
func (c *Client) Import(ctx context.Context, in []importexport.ExportedLink) (*importexport.ImportResult, error) {
	var result importexport.ImportResult
	if err := c.do(ctx, http.MethodPost, "/api/import", importexport.ImportRequest{Links: in}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ErrInvalidInterval is returned by Poll for a non-positive interval
var ErrInvalidInterval = errors.New("poll interval must be positive")

// Poll calls fetch immediately and then every interval until ctx is cancelled.
// fetch owns its own error reporting; a failed round does not stop polling.
func Poll(ctx context.Context, interval time.Duration, fetch func(context.Context)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fetch(ctx)
		}
	}
}
