package estimate

import (
	"github.com/tidwall/gjson"

	"github.com/ylchen07/jira-estimate/internal/jira"
	"github.com/ylchen07/jira-estimate/internal/schema"
	"github.com/ylchen07/jira-estimate/internal/translate"
)

// Field is a normalized issue field. Valid is false when the server value is
// absent or outside the domain set; Raw keeps the server's display text.
type Field[T any] struct {
	Value T      `json:"value"`
	Valid bool   `json:"valid"`
	Raw   string `json:"raw,omitempty"`
}

// Row is the display form of a search hit.
type Row struct {
	Key      string                    `json:"key"`
	Summary  string                    `json:"summary"`
	Assignee string                    `json:"assignee,omitempty"`
	Type     Field[schema.IssueType]   `json:"type"`
	Status   Field[schema.IssueStatus] `json:"status"`
	Priority Field[schema.Priority]    `json:"priority"`
	Size     Field[schema.Size]        `json:"size"`
}

// Summarize validates the estimate-relevant fields of issue.
func Summarize(issue jira.Issue, fields translate.Fields) Row {
	if fields.StoryPoints == "" || fields.Priority == "" {
		defaults := translate.DefaultFields()
		if fields.StoryPoints == "" {
			fields.StoryPoints = defaults.StoryPoints
		}
		if fields.Priority == "" {
			fields.Priority = defaults.Priority
		}
	}

	return Row{
		Key:      issue.Key,
		Summary:  issue.Summary(),
		Assignee: issue.Field("assignee.displayName").String(),
		Type:     record(issue.Field("issuetype"), schema.ValidateIssueType),
		Status:   record(issue.Field("status"), schema.ValidateIssueStatus),
		Priority: record(issue.Field(fields.Priority), schema.ValidatePriority),
		Size:     size(issue.Field(fields.StoryPoints)),
	}
}

func record[T any](raw gjson.Result, validate func(any) (T, error)) Field[T] {
	field := Field[T]{Raw: raw.Get("name").String()}
	if v, err := validate(raw.Value()); err == nil {
		field.Value, field.Valid = v, true
	}
	return field
}

func size(raw gjson.Result) Field[schema.Size] {
	field := Field[schema.Size]{}
	if raw.Type == gjson.Number {
		field.Raw = raw.Raw
	}
	if v, err := schema.ValidateSize(raw.Value()); err == nil {
		field.Value, field.Valid = v, true
	}
	return field
}

// Estimated reports whether both story points and priority hold domain values.
func (r Row) Estimated() bool {
	return r.Size.Valid && r.Priority.Valid
}

// TypeLabel renders the issue type symbol.
func (r Row) TypeLabel() string {
	if r.Type.Valid {
		return r.Type.Value.Symbol()
	}
	return orDash(r.Type.Raw)
}

// StatusLabel renders the colored status name.
func (r Row) StatusLabel() string {
	if r.Status.Valid {
		return r.Status.Value.Label()
	}
	return orDash(r.Status.Raw)
}

// PriorityLabel renders the colored priority name.
func (r Row) PriorityLabel() string {
	if r.Priority.Valid {
		return r.Priority.Value.Label()
	}
	return orDash(r.Priority.Raw)
}

// SizeLabel renders the colored story points.
func (r Row) SizeLabel() string {
	if r.Size.Valid {
		return r.Size.Value.Label()
	}
	return orDash(r.Size.Raw)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
