package jira

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/ylchen07/jira-estimate/internal/atlassian"
	"github.com/ylchen07/jira-estimate/internal/config"
)

// RESTTracker implements Tracker on the plain atlassian HTTP client.
type RESTTracker struct {
	client *atlassian.Client
}

// NewRESTTracker creates a tracker for site using creds.
func NewRESTTracker(site string, creds config.ServiceCredentials, logger *slog.Logger) (*RESTTracker, error) {
	client, err := atlassian.NewClient(site, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("jira: %w", err)
	}
	return &RESTTracker{client: client}, nil
}

// NewRESTTrackerFromClient wraps an existing client.
func NewRESTTrackerFromClient(client *atlassian.Client) *RESTTracker {
	return &RESTTracker{client: client}
}

// ServerInfo fetches /serverInfo.
func (t *RESTTracker) ServerInfo(ctx context.Context) (gjson.Result, error) {
	return t.get(ctx, apiPath("serverInfo"))
}

// Transitions fetches the workflow transitions available to issue.
func (t *RESTTracker) Transitions(ctx context.Context, issue string) (gjson.Result, error) {
	if err := requireIssue(issue); err != nil {
		return gjson.Result{}, err
	}
	return t.get(ctx, apiPath("issue", issue, "transitions"))
}

// EditMeta fetches the edit metadata of issue.
func (t *RESTTracker) EditMeta(ctx context.Context, issue string) (gjson.Result, error) {
	if err := requireIssue(issue); err != nil {
		return gjson.Result{}, err
	}
	return t.get(ctx, apiPath("issue", issue, "editmeta"))
}

// Search executes a JQL search in a single request.
func (t *RESTTracker) Search(ctx context.Context, sr SearchRequest) (gjson.Result, error) {
	data, err := t.client.Post(ctx, apiPath("search"), sr.body())
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(data), nil
}

// EditIssue updates the given fields of issue.
func (t *RESTTracker) EditIssue(ctx context.Context, issue string, fields map[string]any) error {
	if err := requireIssue(issue); err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("jira: fields required")
	}
	return t.client.Put(ctx, apiPath("issue", issue), map[string]any{"fields": fields})
}

func (t *RESTTracker) get(ctx context.Context, path string) (gjson.Result, error) {
	data, err := t.client.Get(ctx, path, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(data), nil
}
