package schema

import "slices"

// Issue type ids.
const (
	IssueTypeBug   = 1
	IssueTypeTask  = 3
	IssueTypeEpic  = 16
	IssueTypeStory = 17
)

// IssueType is a validated tracker issue type.
type IssueType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type issueTypeRecord struct {
	ID   int     `mapstructure:"id" validate:"oneof=1 3 16 17"`
	Name *string `mapstructure:"name"`
}

var defaultIssueTypes = [...]IssueType{
	{ID: IssueTypeBug, Name: "Bug"},
	{ID: IssueTypeTask, Name: "Task"},
	{ID: IssueTypeEpic, Name: "Epic"},
	{ID: IssueTypeStory, Name: "Story"},
}

var issueTypeSymbols = map[int]string{
	IssueTypeBug:   "🐛",
	IssueTypeTask:  "☑️",
	IssueTypeEpic:  "⚡",
	IssueTypeStory: "🎁",
}

// DefaultIssueTypes returns the canonical issue type table.
func DefaultIssueTypes() []IssueType {
	return slices.Clone(defaultIssueTypes[:])
}

// ValidateIssueType checks a decoded JSON issue type object.
func ValidateIssueType(raw any) (IssueType, error) {
	var rec issueTypeRecord
	if err := decodeRecord("issue type", raw, &rec); err != nil {
		return IssueType{}, err
	}
	name, err := requireName("issue type", raw, rec.Name)
	if err != nil {
		return IssueType{}, err
	}
	return IssueType{ID: rec.ID, Name: name}, nil
}

// Symbol returns the glyph for the type, or its name when none is mapped.
func (t IssueType) Symbol() string {
	if sym, ok := issueTypeSymbols[t.ID]; ok {
		return sym
	}
	return t.Name
}
