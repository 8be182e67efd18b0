package triage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/ylchen07/jira-estimate/internal/estimate"
	"github.com/ylchen07/jira-estimate/internal/jira"
	"github.com/ylchen07/jira-estimate/internal/jql"
	"github.com/ylchen07/jira-estimate/internal/schema"
	"github.com/ylchen07/jira-estimate/internal/state"
	"github.com/ylchen07/jira-estimate/internal/translate"
)

type update struct {
	Issue    string
	Priority schema.Priority
	Size     schema.Size
}

type fakeEstimator struct {
	issues    []string
	searchErr error
	updateErr map[string]error
	updates   []update
}

func (f *fakeEstimator) SearchByFilter(_ context.Context, _ jql.Filter) (estimate.Result, error) {
	res := estimate.Result{JQL: "project = RHEL ORDER BY id DESC"}
	if f.searchErr != nil {
		return res, f.searchErr
	}
	for _, key := range f.issues {
		res.Issues = append(res.Issues, jira.Issue{Key: key, Fields: gjson.Parse(`{"summary":"s"}`)})
	}
	return res, nil
}

func (f *fakeEstimator) Translations(context.Context, string) (translate.Table, error) {
	return translate.Table{
		Priority: []schema.Priority{{ID: schema.PriorityMajor, Name: "Major (P3)"}},
		Status:   schema.DefaultIssueStatuses(),
		Type:     schema.DefaultIssueTypes(),
	}, nil
}

func (f *fakeEstimator) UpdateEstimate(_ context.Context, issue string, priority schema.Priority, size schema.Size) error {
	if err := f.updateErr[issue]; err != nil {
		return err
	}
	f.updates = append(f.updates, update{Issue: issue, Priority: priority, Size: size})
	return nil
}

func (f *fakeEstimator) Summarize(issue jira.Issue) estimate.Row {
	return estimate.Summarize(issue, translate.DefaultFields())
}

func (f *fakeEstimator) IssueURL(issue string) string {
	return "https://issues.redhat.com/browse/" + issue
}

type answer struct {
	size     schema.SizeChoice
	priority schema.PriorityChoice
}

type scriptedAsker struct {
	answers map[string]answer
	asked   []string
}

func (s *scriptedAsker) AskSize(_ context.Context, p Prompt) (schema.SizeChoice, error) {
	s.asked = append(s.asked, p.Row.Key+":size")
	return s.answers[p.Row.Key].size, nil
}

func (s *scriptedAsker) AskPriority(_ context.Context, p Prompt) (schema.PriorityChoice, error) {
	s.asked = append(s.asked, p.Row.Key+":priority")
	return s.answers[p.Row.Key].priority, nil
}

func TestRunUpdatesAndSkips(t *testing.T) {
	t.Parallel()

	est := &fakeEstimator{issues: []string{"RHEL-3", "RHEL-2", "RHEL-1"}}
	asker := &scriptedAsker{answers: map[string]answer{
		"RHEL-3": {size: 5, priority: schema.PriorityChoice("3")},
		"RHEL-2": {size: schema.SizeClear},
		"RHEL-1": {size: 8, priority: schema.PriorityClear},
	}}

	runner := NewRunner(est, asker, nil, nil)
	summary, err := runner.Run(context.Background(), jql.Filter{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := Summary{JQL: "project = RHEL ORDER BY id DESC", Total: 3, Updated: 1, Skipped: 2}
	if summary != want {
		t.Fatalf("Summary = %#v, want %#v", summary, want)
	}

	wantUpdates := []update{{Issue: "RHEL-3", Priority: schema.Priority{ID: schema.PriorityMajor, Name: "Major (P3)"}, Size: 5}}
	if !reflect.DeepEqual(est.updates, wantUpdates) {
		t.Fatalf("unexpected updates %#v", est.updates)
	}

	wantAsked := []string{"RHEL-3:size", "RHEL-3:priority", "RHEL-2:size", "RHEL-1:size", "RHEL-1:priority"}
	if !reflect.DeepEqual(asker.asked, wantAsked) {
		t.Fatalf("unexpected prompts %v", asker.asked)
	}

	wantOutcomes := []state.IssueOutcome{
		{Issue: "RHEL-3", Outcome: state.OutcomeUpdated},
		{Issue: "RHEL-2", Outcome: state.OutcomeSkipped},
		{Issue: "RHEL-1", Outcome: state.OutcomeSkipped},
	}
	if got := runner.Session().Outcomes(); !reflect.DeepEqual(got, wantOutcomes) {
		t.Fatalf("Outcomes = %#v, want %#v", got, wantOutcomes)
	}
}

func TestRunCancelStopsWorkflow(t *testing.T) {
	t.Parallel()

	est := &fakeEstimator{issues: []string{"RHEL-3", "RHEL-2", "RHEL-1"}}
	asker := &scriptedAsker{answers: map[string]answer{
		"RHEL-3": {size: 2, priority: schema.PriorityChoice("1")},
		"RHEL-2": {size: 3, priority: schema.PriorityCancel},
	}}

	summary, err := NewRunner(est, asker, nil, nil).Run(context.Background(), jql.Filter{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !summary.Canceled || summary.Updated != 1 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %#v", summary)
	}
	for _, q := range asker.asked {
		if q == "RHEL-1:size" {
			t.Fatalf("no prompt should follow a cancel")
		}
	}
	if len(est.updates) != 1 || est.updates[0].Priority.ID != schema.PriorityBlocker {
		t.Fatalf("unexpected updates %#v", est.updates)
	}
}

func TestRunRecordsFailedUpdates(t *testing.T) {
	t.Parallel()

	est := &fakeEstimator{
		issues:    []string{"RHEL-2", "RHEL-1"},
		updateErr: map[string]error{"RHEL-2": errors.New("403")},
	}
	asker := &scriptedAsker{answers: map[string]answer{
		"RHEL-2": {size: 1, priority: schema.PriorityChoice("4")},
		"RHEL-1": {size: 13, priority: schema.PriorityChoice("10200")},
	}}

	runner := NewRunner(est, asker, state.NewSession(), nil)
	summary, err := runner.Run(context.Background(), jql.Filter{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Failed != 1 || summary.Updated != 1 {
		t.Fatalf("unexpected summary %#v", summary)
	}

	want := []state.IssueOutcome{
		{Issue: "RHEL-2", Outcome: state.OutcomeFailed},
		{Issue: "RHEL-1", Outcome: state.OutcomeUpdated},
	}
	if got := runner.Session().Outcomes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Outcomes = %#v, want %#v", got, want)
	}
	// Normal is not in the fake table, so the canonical entry is written.
	if est.updates[0].Priority.Name != "Normal" {
		t.Fatalf("unexpected priority %#v", est.updates[0].Priority)
	}
}

func TestRunSearchFailure(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("search down")
	runner := NewRunner(&fakeEstimator{searchErr: sentinel}, &scriptedAsker{}, nil, nil)

	summary, err := runner.Run(context.Background(), jql.Filter{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected search error, got %v", err)
	}
	if summary.JQL == "" {
		t.Fatalf("failed run should still report the query")
	}
	if got := runner.Session().Outcomes(); len(got) != 0 {
		t.Fatalf("failed search should record no outcomes, got %#v", got)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	asker := &scriptedAsker{}
	_, err := NewRunner(&fakeEstimator{issues: []string{"RHEL-1"}}, asker, nil, nil).Run(ctx, jql.Filter{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(asker.asked) != 0 {
		t.Fatalf("no prompt expected after cancellation")
	}
}

func TestLookupPriority(t *testing.T) {
	t.Parallel()

	table := translate.Table{Priority: schema.DefaultPriorities()}

	if _, ok := lookupPriority(table, schema.PriorityClear); ok {
		t.Fatalf("clear must not resolve to a priority")
	}
	if _, ok := lookupPriority(table, schema.PriorityChoice("7")); ok {
		t.Fatalf("unknown id must not resolve")
	}
	p, ok := lookupPriority(table, schema.PriorityChoice("2"))
	if !ok || p.Name != "Critical" {
		t.Fatalf("unexpected priority %#v", p)
	}
}
