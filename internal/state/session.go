// Package state keeps the outcome ledger of a single triage run. Nothing in
// it outlives the run.
package state

import "sync"

// Outcome records what happened to an issue during a triage run.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Session records what happened to each issue visited by one run.
// Queries and translation tables are returned by the calls that produce them
// and are not kept here.
type Session struct {
	mu       sync.RWMutex
	outcomes map[string]Outcome
	order    []string
}

// NewSession creates an empty Session.
func NewSession() *Session {
	return &Session{outcomes: make(map[string]Outcome)}
}

// Record stores the outcome of issue, keeping first-seen order.
func (s *Session) Record(issue string, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.outcomes[issue]; !seen {
		s.order = append(s.order, issue)
	}
	s.outcomes[issue] = outcome
}

// Outcomes returns the recorded outcomes in first-seen order.
func (s *Session) Outcomes() []IssueOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]IssueOutcome, 0, len(s.order))
	for _, issue := range s.order {
		out = append(out, IssueOutcome{Issue: issue, Outcome: s.outcomes[issue]})
	}
	return out
}

// Count returns how many issues ended with outcome.
func (s *Session) Count(outcome Outcome) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, o := range s.outcomes {
		if o == outcome {
			n++
		}
	}
	return n
}

// IssueOutcome pairs an issue key with its outcome.
type IssueOutcome struct {
	Issue   string  `json:"issue"`
	Outcome Outcome `json:"outcome"`
}
