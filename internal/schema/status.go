package schema

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Issue status ids of the open-ticket lifecycle. Closed (61) is deliberately
// not part of the set.
const (
	StatusNew            = 11
	StatusPlanning       = 81
	StatusInProgress     = 111
	StatusIntegration    = 41
	StatusReleasePending = 101
)

// IssueStatus is a validated workflow status.
type IssueStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type issueStatusRecord struct {
	ID   int     `mapstructure:"id" validate:"oneof=11 81 111 41 101"`
	Name *string `mapstructure:"name"`
}

var defaultIssueStatuses = [...]IssueStatus{
	{ID: StatusNew, Name: "New"},
	{ID: StatusPlanning, Name: "Planning"},
	{ID: StatusInProgress, Name: "In Progress"},
	{ID: StatusIntegration, Name: "Integration"},
	{ID: StatusReleasePending, Name: "Release Pending"},
}

var issueStatusStyles = map[int]lipgloss.Style{
	StatusNew:            styleCyan,
	StatusPlanning:       styleCyan,
	StatusInProgress:     styleBlue,
	StatusIntegration:    styleGreen,
	StatusReleasePending: styleGreen,
}

// DefaultIssueStatuses returns the canonical status table in lifecycle order.
func DefaultIssueStatuses() []IssueStatus {
	return slices.Clone(defaultIssueStatuses[:])
}

// ValidateIssueStatus checks a decoded JSON status object.
func ValidateIssueStatus(raw any) (IssueStatus, error) {
	var rec issueStatusRecord
	if err := decodeRecord("issue status", raw, &rec); err != nil {
		return IssueStatus{}, err
	}
	name, err := requireName("issue status", raw, rec.Name)
	if err != nil {
		return IssueStatus{}, err
	}
	return IssueStatus{ID: rec.ID, Name: name}, nil
}

// ValidateIssueStatuses checks a decoded JSON array of statuses. The whole
// sequence fails if any element does.
func ValidateIssueStatuses(raw any) ([]IssueStatus, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Kind: "issue status list", Value: raw, Reason: "expected an array"}
	}

	out := make([]IssueStatus, 0, len(items))
	for i, item := range items {
		status, err := ValidateIssueStatus(item)
		if err != nil {
			return nil, &ValidationError{Kind: "issue status list", Value: item, Reason: fmt.Sprintf("element %d", i), Err: err}
		}
		out = append(out, status)
	}
	return out, nil
}

// Label renders the status name with its terminal color.
func (s IssueStatus) Label() string {
	return render(issueStatusStyles, s.ID, s.Name)
}
