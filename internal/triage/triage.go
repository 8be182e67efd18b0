// Package triage walks unestimated issues and asks for story points and
// priority, writing each answer back before moving on.
package triage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ylchen07/jira-estimate/internal/estimate"
	"github.com/ylchen07/jira-estimate/internal/jira"
	"github.com/ylchen07/jira-estimate/internal/jql"
	"github.com/ylchen07/jira-estimate/internal/schema"
	"github.com/ylchen07/jira-estimate/internal/state"
	"github.com/ylchen07/jira-estimate/internal/translate"
)

// Estimator is the facade surface a triage run needs. *estimate.Client satisfies it.
type Estimator interface {
	SearchByFilter(ctx context.Context, f jql.Filter) (estimate.Result, error)
	Translations(ctx context.Context, issue string) (translate.Table, error)
	UpdateEstimate(ctx context.Context, issue string, priority schema.Priority, size schema.Size) error
	Summarize(issue jira.Issue) estimate.Row
	IssueURL(issue string) string
}

// Prompt is one interactive question about an issue.
type Prompt struct {
	Row   estimate.Row
	URL   string
	Table translate.Table
}

// Asker answers prompts. Returning a control choice clears or cancels.
type Asker interface {
	AskSize(ctx context.Context, p Prompt) (schema.SizeChoice, error)
	AskPriority(ctx context.Context, p Prompt) (schema.PriorityChoice, error)
}

// Summary reports the result of a run.
type Summary struct {
	JQL      string `json:"jql"`
	Total    int    `json:"total"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
	Canceled bool   `json:"canceled"`
}

// Runner drives a triage session.
type Runner struct {
	est     Estimator
	asker   Asker
	session *state.Session
	logger  *slog.Logger
}

// NewRunner creates a Runner. A nil session starts a fresh one.
func NewRunner(est Estimator, asker Asker, session *state.Session, logger *slog.Logger) *Runner {
	if session == nil {
		session = state.NewSession()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{est: est, asker: asker, session: session, logger: logger}
}

// Session returns the session the runner records into.
func (r *Runner) Session() *state.Session {
	return r.session
}

// Run searches with f and prompts for every hit. Clearing a prompt skips the
// issue; cancelling stops the run. Update failures are recorded and the run
// continues.
func (r *Runner) Run(ctx context.Context, f jql.Filter) (Summary, error) {
	res, err := r.est.SearchByFilter(ctx, f)
	if err != nil {
		return Summary{JQL: res.JQL}, err
	}

	summary := Summary{JQL: res.JQL, Total: len(res.Issues)}
	for _, issue := range res.Issues {
		if err := ctx.Err(); err != nil {
			return r.tally(summary), err
		}

		outcome, canceled, err := r.triage(ctx, issue)
		if err != nil {
			return r.tally(summary), err
		}
		if canceled {
			summary.Canceled = true
			break
		}
		r.session.Record(issue.Key, outcome)
	}

	return r.tally(summary), nil
}

func (r *Runner) triage(ctx context.Context, issue jira.Issue) (outcome state.Outcome, canceled bool, err error) {
	table, err := r.est.Translations(ctx, issue.Key)
	if err != nil {
		return "", false, fmt.Errorf("triage: %s: %w", issue.Key, err)
	}

	prompt := Prompt{Row: r.est.Summarize(issue), URL: r.est.IssueURL(issue.Key), Table: table}

	sizeChoice, err := r.asker.AskSize(ctx, prompt)
	if err != nil {
		return "", false, fmt.Errorf("triage: %s: size: %w", issue.Key, err)
	}
	if sizeChoice == schema.SizeCancel {
		return "", true, nil
	}
	size, ok := sizeChoice.Size()
	if !ok {
		return state.OutcomeSkipped, false, nil
	}

	priorityChoice, err := r.asker.AskPriority(ctx, prompt)
	if err != nil {
		return "", false, fmt.Errorf("triage: %s: priority: %w", issue.Key, err)
	}
	if priorityChoice == schema.PriorityCancel {
		return "", true, nil
	}
	priority, ok := lookupPriority(table, priorityChoice)
	if !ok {
		return state.OutcomeSkipped, false, nil
	}

	if err := r.est.UpdateEstimate(ctx, issue.Key, priority, size); err != nil {
		r.logger.Error("update estimate failed", "issue", issue.Key, "error", err)
		return state.OutcomeFailed, false, nil
	}
	return state.OutcomeUpdated, false, nil
}

// lookupPriority prefers the table entry so the server's name is written back.
func lookupPriority(table translate.Table, choice schema.PriorityChoice) (schema.Priority, bool) {
	canonical, ok := choice.Priority()
	if !ok {
		return schema.Priority{}, false
	}
	for _, p := range table.Priority {
		if p.ID == canonical.ID {
			return p, true
		}
	}
	return canonical, true
}

func (r *Runner) tally(s Summary) Summary {
	s.Updated = r.session.Count(state.OutcomeUpdated)
	s.Skipped = r.session.Count(state.OutcomeSkipped)
	s.Failed = r.session.Count(state.OutcomeFailed)
	return s
}
