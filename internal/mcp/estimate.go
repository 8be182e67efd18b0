package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ylchen07/jira-estimate/internal/estimate"
	"github.com/ylchen07/jira-estimate/internal/jql"
	"github.com/ylchen07/jira-estimate/internal/schema"
	"github.com/ylchen07/jira-estimate/internal/translate"
)

// EstimateTools wires the estimate client into MCP tools.
type EstimateTools struct {
	client *estimate.Client
	logger *slog.Logger
}

// NewEstimateTools registers the estimate tools on the server.
func NewEstimateTools(s *server.MCPServer, client *estimate.Client, logger *slog.Logger) *EstimateTools {
	if logger == nil {
		logger = slog.Default()
	}
	et := &EstimateTools{client: client, logger: logger}

	s.AddTool(
		mcp.NewTool(
			"estimate.server_version",
			mcp.WithDescription("Report the version of the configured Jira server"),
			mcp.WithInputSchema[ServerVersionArgs](),
			mcp.WithOutputSchema[ServerVersionResult](),
		),
		mcp.NewTypedToolHandler(et.handleServerVersion),
	)

	s.AddTool(
		mcp.NewTool(
			"estimate.search_unestimated",
			mcp.WithDescription("List open issues that are missing story points or priority, optionally filtered"),
			mcp.WithInputSchema[SearchUnestimatedArgs](),
			mcp.WithOutputSchema[SearchResult](),
		),
		mcp.NewTypedToolHandler(et.handleSearchUnestimated),
	)

	s.AddTool(
		mcp.NewTool(
			"estimate.search_by_id",
			mcp.WithDescription("Fetch issues by key with their current estimate fields"),
			mcp.WithInputSchema[SearchByIDArgs](),
			mcp.WithOutputSchema[SearchResult](),
		),
		mcp.NewTypedToolHandler(et.handleSearchByID),
	)

	s.AddTool(
		mcp.NewTool(
			"estimate.translations",
			mcp.WithDescription("Return the priorities, statuses and issue types an issue may take"),
			mcp.WithInputSchema[IssueKeyArgs](),
			mcp.WithOutputSchema[translate.Table](),
		),
		mcp.NewTypedToolHandler(et.handleTranslations),
	)

	s.AddTool(
		mcp.NewTool(
			"estimate.custom_fields",
			mcp.WithDescription("Return the raw edit metadata of the story points and priority fields"),
			mcp.WithInputSchema[IssueKeyArgs](),
			mcp.WithOutputSchema[CustomFieldsResult](),
		),
		mcp.NewTypedToolHandler(et.handleCustomFields),
	)

	s.AddTool(
		mcp.NewTool(
			"estimate.update",
			mcp.WithDescription("Set story points and priority on an issue"),
			mcp.WithInputSchema[UpdateArgs](),
			mcp.WithOutputSchema[OperationStatus](),
		),
		mcp.NewTypedToolHandler(et.handleUpdate),
	)

	return et
}

// ServerVersionArgs takes no parameters.
type ServerVersionArgs struct{}

// ServerVersionResult carries the server version.
type ServerVersionResult struct {
	Version string `json:"version"`
}

// SearchUnestimatedArgs narrows the unestimated issue filter.
type SearchUnestimatedArgs struct {
	Component string `json:"component,omitempty" jsonschema_description:"Component name"`
	Assignee  string `json:"assignee,omitempty" jsonschema_description:"Assignee user name"`
	Developer string `json:"developer,omitempty" jsonschema_description:"Developer user name"`
}

// SearchByIDArgs lists issue keys to fetch.
type SearchByIDArgs struct {
	Keys []string `json:"keys" jsonschema:"required" jsonschema_description:"Issue keys such as RHEL-1234"`
}

// IssueKeyArgs names a single issue.
type IssueKeyArgs struct {
	Key string `json:"key" jsonschema:"required" jsonschema_description:"Issue key"`
}

// UpdateArgs carries a new estimate.
type UpdateArgs struct {
	Key      string `json:"key" jsonschema:"required" jsonschema_description:"Issue key"`
	Size     int    `json:"size" jsonschema:"required,enum=1,enum=2,enum=3,enum=5,enum=8,enum=13" jsonschema_description:"Story points"`
	Priority string `json:"priority" jsonschema:"required" jsonschema_description:"Priority name or id: Blocker, Critical, Major, Normal, Minor"`
}

// IssueSummary is the normalized form of a search hit.
type IssueSummary struct {
	Key       string `json:"key"`
	Summary   string `json:"summary"`
	Assignee  string `json:"assignee,omitempty"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Size      int    `json:"size,omitempty"`
	Estimated bool   `json:"estimated"`
	URL       string `json:"url"`
}

// SearchResult wraps search responses.
type SearchResult struct {
	JQL    string         `json:"jql"`
	Issues []IssueSummary `json:"issues"`
}

// CustomFieldsResult holds raw field metadata; absent fields are null.
type CustomFieldsResult struct {
	StoryPoints any `json:"storyPoints"`
	Priority    any `json:"priority"`
}

// OperationStatus represents an acknowledgement response for state-changing operations.
type OperationStatus struct {
	Message string `json:"message"`
}

func (e *EstimateTools) handleServerVersion(ctx context.Context, _ mcp.CallToolRequest, _ ServerVersionArgs) (*mcp.CallToolResult, error) {
	version, err := e.client.ServiceVersion(ctx)
	if err != nil {
		return e.failure("estimate.server_version", "", "server version failed", err), nil
	}
	return mcp.NewToolResultStructured(ServerVersionResult{Version: version}, "Jira "+version), nil
}

func (e *EstimateTools) handleSearchUnestimated(ctx context.Context, _ mcp.CallToolRequest, args SearchUnestimatedArgs) (*mcp.CallToolResult, error) {
	res, err := e.client.SearchByFilter(ctx, jql.Filter{
		Component: args.Component,
		Assignee:  args.Assignee,
		Developer: args.Developer,
	})
	return e.searchResult(res, err)
}

func (e *EstimateTools) handleSearchByID(ctx context.Context, _ mcp.CallToolRequest, args SearchByIDArgs) (*mcp.CallToolResult, error) {
	if len(args.Keys) == 0 {
		return mcp.NewToolResultError("at least one issue key is required"), nil
	}
	res, err := e.client.SearchByIDs(ctx, args.Keys)
	return e.searchResult(res, err)
}

func (e *EstimateTools) searchResult(res estimate.Result, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return e.failure("estimate.search", "", "search failed", err), nil
	}

	out := SearchResult{JQL: res.JQL, Issues: make([]IssueSummary, 0, len(res.Issues))}
	for _, issue := range res.Issues {
		out.Issues = append(out.Issues, e.summarize(e.client.Summarize(issue)))
	}

	fallback := fmt.Sprintf("Found %d issues for JQL: %s", len(out.Issues), res.JQL)
	return mcp.NewToolResultStructured(out, fallback), nil
}

// summarize flattens a row to plain names; server text is used when a value is outside the domain set.
func (e *EstimateTools) summarize(row estimate.Row) IssueSummary {
	summary := IssueSummary{
		Key:       row.Key,
		Summary:   row.Summary,
		Assignee:  row.Assignee,
		Type:      row.Type.Raw,
		Status:    row.Status.Raw,
		Priority:  row.Priority.Raw,
		Estimated: row.Estimated(),
		URL:       e.client.IssueURL(row.Key),
	}
	if row.Type.Valid {
		summary.Type = row.Type.Value.Name
	}
	if row.Status.Valid {
		summary.Status = row.Status.Value.Name
	}
	if row.Priority.Valid {
		summary.Priority = row.Priority.Value.Name
	}
	if row.Size.Valid {
		summary.Size = int(row.Size.Value)
	}
	return summary
}

func (e *EstimateTools) handleTranslations(ctx context.Context, _ mcp.CallToolRequest, args IssueKeyArgs) (*mcp.CallToolResult, error) {
	key := strings.TrimSpace(args.Key)
	if key == "" {
		return mcp.NewToolResultError("issue key is required"), nil
	}

	table, err := e.client.Translations(ctx, key)
	if err != nil {
		return e.failure("estimate.translations", key, "translations failed", err), nil
	}

	fallback := fmt.Sprintf("%s: %d priorities, %d statuses, %d types", key, len(table.Priority), len(table.Status), len(table.Type))
	return mcp.NewToolResultStructured(table, fallback), nil
}

func (e *EstimateTools) handleCustomFields(ctx context.Context, _ mcp.CallToolRequest, args IssueKeyArgs) (*mcp.CallToolResult, error) {
	key := strings.TrimSpace(args.Key)
	if key == "" {
		return mcp.NewToolResultError("issue key is required"), nil
	}

	fields, err := e.client.CustomFields(ctx, key)
	if err != nil {
		return e.failure("estimate.custom_fields", key, "custom fields failed", err), nil
	}

	out := CustomFieldsResult{StoryPoints: fields.StoryPoints.Value(), Priority: fields.Priority.Value()}
	fallback := fmt.Sprintf("%s: story points exposed=%t, priority exposed=%t", key, fields.StoryPoints.Exists(), fields.Priority.Exists())
	return mcp.NewToolResultStructured(out, fallback), nil
}

func (e *EstimateTools) handleUpdate(ctx context.Context, _ mcp.CallToolRequest, args UpdateArgs) (*mcp.CallToolResult, error) {
	key := strings.TrimSpace(args.Key)
	if key == "" {
		return mcp.NewToolResultError("issue key is required"), nil
	}

	size, err := schema.ValidateSize(args.Size)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid size", err), nil
	}
	priority, err := schema.ParsePriority(args.Priority)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid priority", err), nil
	}

	if err := e.client.UpdateEstimate(ctx, key, priority, size); err != nil {
		return e.failure("estimate.update", key, "update failed", err), nil
	}

	msg := fmt.Sprintf("%s set to %d story points, priority %s", key, int(size), priority.Name)
	return mcp.NewToolResultStructured(OperationStatus{Message: msg}, msg), nil
}

// failure logs a tracker failure and turns it into a tool error result.
// Argument validation errors are returned to the caller without logging.
func (e *EstimateTools) failure(tool, issue, msg string, err error) *mcp.CallToolResult {
	attrs := []any{slog.String("tool", tool), slog.Any("error", err)}
	if issue != "" {
		attrs = append(attrs, slog.String("issue", issue))
	}
	e.logger.Error(msg, attrs...)
	return mcp.NewToolResultErrorFromErr(msg, err)
}
