// Package translate turns per-issue tracker responses into the domain tables
// used to label and edit an issue. Schema mismatches fall back to the
// canonical defaults; only transport failures reach the caller.
package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/ylchen07/jira-estimate/internal/schema"
)

// Source is the subset of tracker calls the service reads from.
type Source interface {
	Transitions(ctx context.Context, issue string) (gjson.Result, error)
	EditMeta(ctx context.Context, issue string) (gjson.Result, error)
}

// Fields names the edit-metadata keys of the estimate fields.
type Fields struct {
	StoryPoints string
	Priority    string
}

// DefaultFields returns the keys used by the Red Hat tracker.
func DefaultFields() Fields {
	return Fields{StoryPoints: "customfield_12310243", Priority: "priority"}
}

// Table holds the values an issue may take, built per issue and never stored.
type Table struct {
	Priority []schema.Priority    `json:"priority"`
	Status   []schema.IssueStatus `json:"status"`
	Type     []schema.IssueType   `json:"type"`
}

// CustomFields carries the raw edit metadata of the estimate fields.
// A field the server does not expose reads as !Exists().
type CustomFields struct {
	StoryPoints gjson.Result
	Priority    gjson.Result
}

// RemoteFetchError reports a failed tracker call.
type RemoteFetchError struct {
	Op    string
	Issue string
	Err   error
}

func (e *RemoteFetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Issue == "" {
		return fmt.Sprintf("translate: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("translate: %s %s: %v", e.Op, e.Issue, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Service builds translation tables from a Source.
type Service struct {
	source Source
	fields Fields
	logger *slog.Logger
}

// NewService creates a Service. Blank field keys take the defaults.
func NewService(source Source, fields Fields, logger *slog.Logger) *Service {
	defaults := DefaultFields()
	if fields.StoryPoints == "" {
		fields.StoryPoints = defaults.StoryPoints
	}
	if fields.Priority == "" {
		fields.Priority = defaults.Priority
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, fields: fields, logger: logger}
}

// Fields returns the effective field keys.
func (s *Service) Fields() Fields {
	return s.fields
}

// Transitions returns the statuses issue can move to. A response that does
// not validate as a non-empty status list yields DefaultIssueStatuses.
func (s *Service) Transitions(ctx context.Context, issue string) ([]schema.IssueStatus, error) {
	doc, err := s.source.Transitions(ctx, issue)
	if err != nil {
		return nil, &RemoteFetchError{Op: "transitions", Issue: issue, Err: err}
	}

	raw := doc.Get("transitions")
	statuses, err := schema.ValidateIssueStatuses(raw.Value())
	switch {
	case err != nil:
		s.logger.Debug("transitions failed validation, using defaults", "issue", issue, "error", err)
		return schema.DefaultIssueStatuses(), nil
	case len(statuses) == 0:
		s.logger.Debug("no transitions returned, using defaults", "issue", issue)
		return schema.DefaultIssueStatuses(), nil
	}
	return statuses, nil
}

// Table builds the translation table for issue. Only the status list is
// fetched; priorities and types are the canonical defaults.
func (s *Service) Table(ctx context.Context, issue string) (Table, error) {
	statuses, err := s.Transitions(ctx, issue)
	if err != nil {
		return Table{}, err
	}
	return Table{
		Priority: schema.DefaultPriorities(),
		Status:   statuses,
		Type:     schema.DefaultIssueTypes(),
	}, nil
}

// CustomFields reads the configured estimate fields from the edit metadata of issue.
func (s *Service) CustomFields(ctx context.Context, issue string) (CustomFields, error) {
	doc, err := s.source.EditMeta(ctx, issue)
	if err != nil {
		return CustomFields{}, &RemoteFetchError{Op: "editmeta", Issue: issue, Err: err}
	}

	fields := doc.Get("fields")
	out := CustomFields{
		StoryPoints: fields.Get(s.fields.StoryPoints),
		Priority:    fields.Get(s.fields.Priority),
	}
	s.logger.Debug("edit metadata",
		"issue", issue,
		"story_points", out.StoryPoints.Exists(),
		"priority", out.Priority.Exists(),
	)
	return out, nil
}
