package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	jirav2 "github.com/ctreminiom/go-atlassian/v2/jira/v2"
	model "github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"
	"github.com/tidwall/gjson"
)

// SDKTracker implements Tracker on the go-atlassian v2 client.
// Typed SDK models drop custom fields, so most calls go through the raw
// request API and keep the document as returned.
type SDKTracker struct {
	client *jirav2.Client
	logger *slog.Logger
}

// NewSDKTracker wraps an SDK client.
func NewSDKTracker(client *jirav2.Client, logger *slog.Logger) *SDKTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SDKTracker{client: client, logger: logger}
}

// ServerInfo fetches /serverInfo.
func (t *SDKTracker) ServerInfo(ctx context.Context) (gjson.Result, error) {
	return t.call(ctx, http.MethodGet, apiPath("serverInfo"), nil)
}

// Transitions fetches the workflow transitions available to issue.
func (t *SDKTracker) Transitions(ctx context.Context, issue string) (gjson.Result, error) {
	if err := requireIssue(issue); err != nil {
		return gjson.Result{}, err
	}
	return t.call(ctx, http.MethodGet, apiPath("issue", issue, "transitions"), nil)
}

// EditMeta fetches the edit metadata of issue through the SDK metadata service.
func (t *SDKTracker) EditMeta(ctx context.Context, issue string) (gjson.Result, error) {
	if err := requireIssue(issue); err != nil {
		return gjson.Result{}, err
	}

	t.logger.Debug("jira sdk request", "op", "editmeta", "issue", issue)
	meta, res, err := t.client.Issue.Metadata.Get(ctx, issue, false, false)
	if err != nil {
		return gjson.Result{}, responseError("editmeta", res, err)
	}
	return meta, nil
}

// Search executes a JQL search in a single request.
func (t *SDKTracker) Search(ctx context.Context, sr SearchRequest) (gjson.Result, error) {
	return t.call(ctx, http.MethodPost, apiPath("search"), sr.body())
}

// EditIssue updates the given fields of issue.
func (t *SDKTracker) EditIssue(ctx context.Context, issue string, fields map[string]any) error {
	if err := requireIssue(issue); err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("jira: fields required")
	}
	_, err := t.call(ctx, http.MethodPut, apiPath("issue", issue), map[string]any{"fields": fields})
	return err
}

func (t *SDKTracker) call(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	t.logger.Debug("jira sdk request", "method", method, "path", path)

	req, err := t.client.NewRequest(ctx, method, path, "", body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("jira: new request: %w", err)
	}

	var raw json.RawMessage
	var out any = &raw
	if method == http.MethodPut {
		out = nil
	}

	res, err := t.client.Call(req, out)
	if err != nil {
		return gjson.Result{}, responseError(method+" "+path, res, err)
	}
	return gjson.ParseBytes(raw), nil
}

// responseError wraps an SDK error with the response status and body when one was read.
func responseError(op string, res *model.ResponseScheme, err error) error {
	if res == nil || res.Code == 0 {
		return fmt.Errorf("jira: %s: %w", op, err)
	}
	body := strings.TrimSpace(res.Bytes.String())
	if body == "" {
		return fmt.Errorf("jira: %s: %d: %w", op, res.Code, err)
	}
	return fmt.Errorf("jira: %s: %d %s: %w", op, res.Code, body, err)
}
