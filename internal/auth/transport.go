// Package auth attaches tracker credentials to outbound HTTP requests.
package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ylchen07/jira-estimate/internal/config"
)

// DefaultUserAgent identifies requests issued by jira-estimate.
const DefaultUserAgent = "jira-estimate"

// Transport injects the Authorization header into outbound requests.
// The header is computed once, on first use.
type Transport struct {
	base       http.RoundTripper
	creds      config.ServiceCredentials
	userAgent  string
	authHeader string
	once       sync.Once
	initErr    error
}

// Option customises a Transport.
type Option func(*Transport)

// WithUserAgent overrides the User-Agent header. Blank values are ignored.
func WithUserAgent(agent string) Option {
	return func(t *Transport) {
		if strings.TrimSpace(agent) != "" {
			t.userAgent = agent
		}
	}
}

// NewTransport wraps base, defaulting to http.DefaultTransport.
func NewTransport(base http.RoundTripper, creds config.ServiceCredentials, opts ...Option) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{base: base, creds: creds, userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.initialize(); err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.authHeader)
	clone.Header.Set("Accept", "application/json")
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}

func (t *Transport) initialize() error {
	t.once.Do(func() {
		switch {
		case t.creds.OAuthToken != "":
			t.authHeader = "Bearer " + t.creds.OAuthToken
		case t.creds.Email != "" && t.creds.APIToken != "":
			token := base64.StdEncoding.EncodeToString([]byte(t.creds.Email + ":" + t.creds.APIToken))
			t.authHeader = "Basic " + token
		default:
			t.initErr = fmt.Errorf("auth: insufficient credentials")
		}
	})
	return t.initErr
}
