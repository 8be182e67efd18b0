package jira

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jirav2 "github.com/ctreminiom/go-atlassian/v2/jira/v2"

	"github.com/ylchen07/jira-estimate/internal/auth"
	"github.com/ylchen07/jira-estimate/internal/config"
)

// ClientOption customises construction of the SDK client.
type ClientOption func(*jirav2.Client)

// WithUserAgent sets a custom user agent on the SDK client.
func WithUserAgent(agent string) ClientOption {
	return func(client *jirav2.Client) {
		if strings.TrimSpace(agent) != "" {
			client.Auth.SetUserAgent(agent)
		}
	}
}

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *jirav2.Client) {
		if httpClient != nil {
			client.HTTP = httpClient
		}
	}
}

// NewClient creates a REST API v2 client backed by the go-atlassian SDK.
// A personal access token is sent as a bearer token; otherwise email and API
// token are used for basic auth.
func NewClient(site string, creds config.ServiceCredentials, opts ...ClientOption) (*jirav2.Client, error) {
	base, err := normalizeSite(site)
	if err != nil {
		return nil, err
	}

	// Deadlines come from the caller's context.
	client, err := jirav2.New(&http.Client{}, base)
	if err != nil {
		return nil, fmt.Errorf("jira: initialise client: %w", err)
	}

	client.Auth.SetUserAgent(auth.DefaultUserAgent)

	for _, opt := range opts {
		opt(client)
	}

	switch {
	case strings.TrimSpace(creds.OAuthToken) != "":
		client.Auth.SetBearerToken(creds.OAuthToken)
	case strings.TrimSpace(creds.Email) != "" && strings.TrimSpace(creds.APIToken) != "":
		client.Auth.SetBasicAuth(creds.Email, creds.APIToken)
	default:
		return nil, fmt.Errorf("jira: insufficient credentials for client")
	}

	return client, nil
}

// normalizeSite strips a trailing REST API suffix so the SDK can resolve its own paths.
func normalizeSite(site string) (string, error) {
	trimmed := strings.TrimSpace(site)
	if trimmed == "" {
		return "", fmt.Errorf("jira: site is required to construct client")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("jira: parse site: %w", err)
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/")
	for _, suffix := range []string{"/rest/api/3", "/rest/api/2", "/rest/api/latest"} {
		if strings.HasSuffix(parsed.Path, suffix) {
			parsed.Path = strings.TrimRight(strings.TrimSuffix(parsed.Path, suffix), "/")
			break
		}
	}

	if parsed.Path != "" {
		parsed.Path += "/"
	}

	return parsed.String(), nil
}
