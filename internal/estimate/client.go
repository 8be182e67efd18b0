// Package estimate is the facade the CLI and MCP server use to query
// unestimated issues and write story points and priority back.
package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ylchen07/jira-estimate/internal/jira"
	"github.com/ylchen07/jira-estimate/internal/jql"
	"github.com/ylchen07/jira-estimate/internal/schema"
	"github.com/ylchen07/jira-estimate/internal/translate"
)

// Tracker is the remote surface the facade depends on. jira.Tracker satisfies it.
type Tracker interface {
	translate.Source
	ServerInfo(ctx context.Context) (gjson.Result, error)
	Search(ctx context.Context, sr jira.SearchRequest) (gjson.Result, error)
	EditIssue(ctx context.Context, issue string, fields map[string]any) error
}

// Options configures a Client.
type Options struct {
	// Site is the tracker base URL used for browse links.
	Site string
	// Fields names the story points and priority keys. Blank keys take the defaults.
	Fields translate.Fields
	// Project and StoryPointsLabel feed the filter query.
	Project          string
	StoryPointsLabel string
	Logger           *slog.Logger
}

// MissingFieldError reports a response that lacks a field the operation needs.
type MissingFieldError struct {
	Op    string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("estimate: %s: missing %s", e.Op, e.Field)
}

// Result is the outcome of a search, including the query that produced it.
type Result struct {
	JQL    string       `json:"jql"`
	Issues []jira.Issue `json:"-"`
}

// Client is safe for concurrent use; it holds no per-call state.
type Client struct {
	tracker     Tracker
	site        string
	fields      translate.Fields
	queries     *jql.Builder
	translation *translate.Service
	logger      *slog.Logger
}

// New creates a Client on top of tracker.
func New(tracker Tracker, opts Options) (*Client, error) {
	if tracker == nil {
		return nil, fmt.Errorf("estimate: tracker is required")
	}
	site := strings.TrimRight(strings.TrimSpace(opts.Site), "/")
	if site == "" {
		return nil, fmt.Errorf("estimate: site is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	translation := translate.NewService(tracker, opts.Fields, logger)

	return &Client{
		tracker:     tracker,
		site:        site,
		fields:      translation.Fields(),
		queries:     jql.NewBuilder(jql.WithProject(opts.Project), jql.WithStoryPointsLabel(opts.StoryPointsLabel)),
		translation: translation,
		logger:      logger,
	}, nil
}

// Fields returns the effective estimate field keys.
func (c *Client) Fields() translate.Fields {
	return c.fields
}

// ServiceVersion returns the tracker's version string.
func (c *Client) ServiceVersion(ctx context.Context) (string, error) {
	info, err := c.tracker.ServerInfo(ctx)
	if err != nil {
		return "", &translate.RemoteFetchError{Op: "serverInfo", Err: err}
	}

	version := info.Get("version")
	if version.Type != gjson.String || version.String() == "" {
		return "", &MissingFieldError{Op: "ServiceVersion", Field: "version"}
	}
	return version.String(), nil
}

// SearchByIDs fetches the listed issues, newest first.
func (c *Client) SearchByIDs(ctx context.Context, ids []string) (Result, error) {
	query, err := jql.ByIDs(ids)
	if err != nil {
		return Result{}, err
	}
	return c.search(ctx, "SearchByIDs", query)
}

// SearchByFilter fetches open issues missing story points or priority.
func (c *Client) SearchByFilter(ctx context.Context, f jql.Filter) (Result, error) {
	return c.search(ctx, "SearchByFilter", c.queries.ByAttributes(f))
}

func (c *Client) search(ctx context.Context, op, query string) (Result, error) {
	c.logger.Debug("searching issues", "op", op, "jql", query)

	doc, err := c.tracker.Search(ctx, jira.SearchRequest{JQL: query, Fields: c.searchFields()})
	if err != nil {
		return Result{JQL: query}, &translate.RemoteFetchError{Op: "search", Err: err}
	}

	issues, ok := jira.ParseIssues(doc.Get("issues"))
	if !ok {
		return Result{JQL: query}, &MissingFieldError{Op: op, Field: "issues"}
	}
	return Result{JQL: query, Issues: issues}, nil
}

func (c *Client) searchFields() []string {
	return []string{"id", "issuetype", "status", "summary", "assignee", c.fields.StoryPoints, c.fields.Priority}
}

// UpdateEstimate writes story points and priority to issue in one edit.
func (c *Client) UpdateEstimate(ctx context.Context, issue string, priority schema.Priority, size schema.Size) error {
	if _, err := schema.ParseIssueID(issue); err != nil {
		return err
	}
	if !size.Valid() {
		return &schema.ValidationError{Kind: "size", Value: int(size), Reason: "not a permitted story point value"}
	}
	canonical, ok := schema.PriorityByID(priority.ID)
	if !ok {
		return &schema.ValidationError{Kind: "priority", Value: priority.ID, Reason: "id outside the allowed set"}
	}
	name := priority.Name
	if name == "" {
		name = canonical.Name
	}

	fields := map[string]any{
		c.fields.StoryPoints: int(size),
		c.fields.Priority:    map[string]string{"name": name},
	}

	c.logger.Info("updating estimate", "issue", issue, "size", int(size), "priority", name)
	if err := c.tracker.EditIssue(ctx, issue, fields); err != nil {
		return &translate.RemoteFetchError{Op: "edit", Issue: issue, Err: err}
	}
	return nil
}

// IssueURL returns the browse link for issue.
func (c *Client) IssueURL(issue string) string {
	return c.site + "/browse/" + issue
}

// Translations builds the translation table for issue.
func (c *Client) Translations(ctx context.Context, issue string) (translate.Table, error) {
	return c.translation.Table(ctx, issue)
}

// CustomFields returns the raw edit metadata of the estimate fields of issue.
func (c *Client) CustomFields(ctx context.Context, issue string) (translate.CustomFields, error) {
	return c.translation.CustomFields(ctx, issue)
}

// Summarize normalizes issue using the client's field keys.
func (c *Client) Summarize(issue jira.Issue) Row {
	return Summarize(issue, c.fields)
}
