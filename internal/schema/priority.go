package schema

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Priority ids as configured on the tracker.
const (
	PriorityBlocker  = 1
	PriorityCritical = 2
	PriorityMajor    = 3
	PriorityMinor    = 4
	PriorityNormal   = 10200
)

// Priority is a validated tracker priority.
type Priority struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type priorityRecord struct {
	ID   int     `mapstructure:"id" validate:"oneof=1 2 3 4 10200"`
	Name *string `mapstructure:"name"`
}

// Display order, most to least urgent. Normal sits above Minor even though
// its id is larger.
var defaultPriorities = [...]Priority{
	{ID: PriorityBlocker, Name: "Blocker"},
	{ID: PriorityCritical, Name: "Critical"},
	{ID: PriorityMajor, Name: "Major"},
	{ID: PriorityNormal, Name: "Normal"},
	{ID: PriorityMinor, Name: "Minor"},
}

var priorityStyles = map[int]lipgloss.Style{
	PriorityBlocker:  styleRed.Bold(true),
	PriorityCritical: styleRed,
	PriorityMajor:    styleYellow,
	PriorityMinor:    styleCyan,
}

// DefaultPriorities returns the canonical priority table in display order.
func DefaultPriorities() []Priority {
	return slices.Clone(defaultPriorities[:])
}

// ValidatePriority checks a decoded JSON priority object.
func ValidatePriority(raw any) (Priority, error) {
	var rec priorityRecord
	if err := decodeRecord("priority", raw, &rec); err != nil {
		return Priority{}, err
	}
	name, err := requireName("priority", raw, rec.Name)
	if err != nil {
		return Priority{}, err
	}
	return Priority{ID: rec.ID, Name: name}, nil
}

// PriorityByID looks a priority up in the default table.
func PriorityByID(id int) (Priority, bool) {
	for _, p := range defaultPriorities {
		if p.ID == id {
			return p, true
		}
	}
	return Priority{}, false
}

// ParsePriority resolves user input given either as a priority name
// (case-insensitive) or as its numeric id.
func ParsePriority(s string) (Priority, error) {
	trimmed := strings.TrimSpace(s)
	if id, err := strconv.Atoi(trimmed); err == nil {
		if p, ok := PriorityByID(id); ok {
			return p, nil
		}
	}
	for _, p := range defaultPriorities {
		if strings.EqualFold(p.Name, trimmed) {
			return p, nil
		}
	}
	return Priority{}, &ValidationError{Kind: "priority", Value: s, Reason: "unknown priority"}
}

// Label renders the priority name with its terminal color.
func (p Priority) Label() string {
	return render(priorityStyles, p.ID, p.Name)
}

// PriorityChoice is a priority id in string form or one of the interactive
// controls.
type PriorityChoice string

const (
	PriorityClear  PriorityChoice = "0"
	PriorityCancel PriorityChoice = "-1"
)

// ChoiceOf returns the choice that selects p.
func ChoiceOf(p Priority) PriorityChoice {
	return PriorityChoice(strconv.Itoa(p.ID))
}

// Priority returns the selected priority when c is not a control value.
func (c PriorityChoice) Priority() (Priority, bool) {
	if c == PriorityClear || c == PriorityCancel {
		return Priority{}, false
	}
	id, err := strconv.Atoi(string(c))
	if err != nil {
		return Priority{}, false
	}
	return PriorityByID(id)
}
