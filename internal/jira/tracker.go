// Package jira talks to a Jira-compatible tracker over REST, either through
// the go-atlassian SDK or a plain authenticated HTTP client.
package jira

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ylchen07/jira-estimate/internal/config"
)

const apiPrefix = "rest/api/2"

// Tracker is the set of remote calls the estimate workflow depends on.
// Read calls return the response document untouched.
type Tracker interface {
	ServerInfo(ctx context.Context) (gjson.Result, error)
	Transitions(ctx context.Context, issue string) (gjson.Result, error)
	EditMeta(ctx context.Context, issue string) (gjson.Result, error)
	Search(ctx context.Context, sr SearchRequest) (gjson.Result, error)
	EditIssue(ctx context.Context, issue string, fields map[string]any) error
}

// NewTracker builds the backend selected by cfg.Backend.
func NewTracker(cfg config.JiraConfig, logger *slog.Logger) (Tracker, error) {
	switch cfg.Backend {
	case config.BackendREST:
		return NewRESTTracker(cfg.Site, cfg.ServiceCredentials, logger)
	case config.BackendSDK, "":
		client, err := NewClient(cfg.Site, cfg.ServiceCredentials)
		if err != nil {
			return nil, err
		}
		return NewSDKTracker(client, logger), nil
	default:
		return nil, fmt.Errorf("jira: unknown backend %q", cfg.Backend)
	}
}

// apiPath joins parts under the REST API v2 prefix.
func apiPath(parts ...string) string {
	var builder strings.Builder
	builder.WriteString(apiPrefix)

	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			builder.WriteByte('/')
			builder.WriteString(trimmed)
		}
	}

	return builder.String()
}

func requireIssue(issue string) error {
	if strings.TrimSpace(issue) == "" {
		return fmt.Errorf("jira: issue key required")
	}
	return nil
}
