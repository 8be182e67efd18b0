// Package jql builds the JQL filters used to find issues that still need an
// estimate. Everything here is pure string composition.
package jql

import (
	"fmt"
	"strings"

	"github.com/ylchen07/jira-estimate/internal/schema"
)

const (
	orderByID = "ORDER BY id DESC"

	// DefaultProject is the project the base predicate targets.
	DefaultProject = "RHEL"
	// DefaultStoryPointsLabel is the JQL name of the story points field.
	DefaultStoryPointsLabel = "Story Points"
)

// InvalidQueryError reports input the builder refuses to turn into JQL.
type InvalidQueryError struct {
	Reason string
	Err    error
}

func (e *InvalidQueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jql: invalid query: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("jql: invalid query: %s", e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Err
}

// Filter narrows the unestimated-issue search. Empty fields are ignored.
type Filter struct {
	Component string
	Assignee  string
	Developer string
}

// Builder composes queries for one project.
type Builder struct {
	project          string
	storyPointsLabel string
}

// Option customises a Builder.
type Option func(*Builder)

// WithProject targets a project other than DefaultProject.
func WithProject(key string) Option {
	return func(b *Builder) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			b.project = trimmed
		}
	}
}

// WithStoryPointsLabel overrides the JQL name of the story points field.
func WithStoryPointsLabel(label string) Option {
	return func(b *Builder) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			b.storyPointsLabel = trimmed
		}
	}
}

// NewBuilder returns a Builder with the defaults applied before opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		project:          DefaultProject,
		storyPointsLabel: DefaultStoryPointsLabel,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Base is the predicate every attribute search starts from: open issues in
// the project that lack story points or a priority.
func (b *Builder) Base() string {
	return fmt.Sprintf("project = %s AND (%s is EMPTY OR priority is EMPTY) AND status != Closed",
		b.project, quote(b.storyPointsLabel))
}

// ByAttributes appends one clause per non-empty filter field to Base.
func (b *Builder) ByAttributes(f Filter) string {
	parts := []string{b.Base()}

	if component := strings.TrimSpace(f.Component); component != "" {
		parts = append(parts, "AND component = "+component)
	}
	if assignee := strings.TrimSpace(f.Assignee); assignee != "" {
		parts = append(parts, "AND assignee = "+quote(assignee))
	}
	if developer := strings.TrimSpace(f.Developer); developer != "" {
		parts = append(parts, "AND developer = "+quote(developer))
	}

	parts = append(parts, orderByID)
	return strings.Join(parts, " ")
}

// ByIDs selects an explicit list of issues. Every id must be a valid issue key.
func ByIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", &InvalidQueryError{Reason: "no issue ids given"}
	}

	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := schema.ParseIssueID(strings.TrimSpace(raw))
		if err != nil {
			return "", &InvalidQueryError{Reason: fmt.Sprintf("bad issue id %q", raw), Err: err}
		}
		keys = append(keys, id.String())
	}

	return fmt.Sprintf("issue in (%s) %s", strings.Join(keys, ","), orderByID), nil
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
