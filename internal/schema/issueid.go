package schema

import "regexp"

var issueIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-[0-9]+$`)

// IssueID is a tracker issue key such as RHEL-35732.
type IssueID string

// ParseIssueID validates s as an issue key.
func ParseIssueID(s string) (IssueID, error) {
	if !issueIDPattern.MatchString(s) {
		return "", &ValidationError{Kind: "issue id", Value: s, Reason: "expected PROJECT-<number>"}
	}
	return IssueID(s), nil
}

func (id IssueID) String() string {
	return string(id)
}
