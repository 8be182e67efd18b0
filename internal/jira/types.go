package jira

import "github.com/tidwall/gjson"

// SearchRequest defines parameters for a JQL search.
type SearchRequest struct {
	JQL    string
	Fields []string
}

func (sr SearchRequest) body() map[string]any {
	body := map[string]any{"jql": sr.JQL}
	if len(sr.Fields) > 0 {
		body["fields"] = sr.Fields
	}
	return body
}

// Issue is a search hit. Fields stay raw so callers decide how to normalize them.
type Issue struct {
	ID     string
	Key    string
	Fields gjson.Result
}

// Field returns the raw value of a field by key.
func (i Issue) Field(key string) gjson.Result {
	return i.Fields.Get(key)
}

// Summary returns the issue summary, or "" when absent.
func (i Issue) Summary() string {
	return i.Field("summary").String()
}

// ParseIssues converts a raw "issues" array into Issues.
// ok is false when raw is absent or not an array.
func ParseIssues(raw gjson.Result) (issues []Issue, ok bool) {
	if !raw.Exists() || !raw.IsArray() {
		return nil, false
	}

	issues = make([]Issue, 0, len(raw.Array()))
	raw.ForEach(func(_, value gjson.Result) bool {
		issues = append(issues, Issue{
			ID:     value.Get("id").String(),
			Key:    value.Get("key").String(),
			Fields: value.Get("fields"),
		})
		return true
	})
	return issues, true
}
