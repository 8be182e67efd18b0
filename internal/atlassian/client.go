// Package atlassian is a small HTTP client for Jira-compatible REST APIs.
// Responses are returned as raw bytes so callers can normalize them.
package atlassian

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ylchen07/jira-estimate/internal/auth"
	"github.com/ylchen07/jira-estimate/internal/config"
)

// Client issues authenticated requests relative to a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client for the specified base URL and credentials.
// The client sets no timeout; callers bound requests through the context.
func NewClient(base string, creds config.ServiceCredentials, logger *slog.Logger) (*Client, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, fmt.Errorf("atlassian: base URL required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("atlassian: parse base url: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Transport: auth.NewTransport(nil, creds)},
		logger:     logger,
	}, nil
}

// NewRequest builds an HTTP request with optional query parameters and a JSON body.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("atlassian: encode body: %w", err)
		}
		bodyReader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("atlassian: new request: %w", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do executes the request and returns the response body.
// Non-2xx responses are returned as *Error.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	c.logger.Debug("atlassian request", "method", req.Method, "path", req.URL.Path)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("atlassian: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, parseError(res)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("atlassian: read response: %w", err)
	}
	return data, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Put issues a PUT request with a JSON body and discards the response.
func (c *Client) Put(ctx context.Context, path string, body any) error {
	req, err := c.NewRequest(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	_, err = c.Do(req)
	return err
}

// SetTransport overrides the underlying HTTP transport. Useful for testing.
func (c *Client) SetTransport(rt http.RoundTripper) {
	if rt == nil {
		return
	}
	c.httpClient.Transport = rt
}
