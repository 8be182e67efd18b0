package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestValidateSizeAcceptsPermittedValues(t *testing.T) {
	t.Parallel()

	for _, want := range []Size{1, 2, 3, 5, 8, 13} {
		for _, raw := range []any{int(want), float64(want), json.Number(want.String())} {
			got, err := ValidateSize(raw)
			if err != nil {
				t.Fatalf("ValidateSize(%#v) unexpected error: %v", raw, err)
			}
			if got != want {
				t.Fatalf("ValidateSize(%#v) = %d, want %d", raw, got, want)
			}
		}
	}
}

func TestValidateSizeAcceptsGoIntegerKinds(t *testing.T) {
	t.Parallel()

	cases := []any{int8(1), int16(2), int32(3), int64(5), uint(8), uint8(13), uint16(2), uint32(3), uint64(5), Size(8), float32(13)}
	for _, raw := range cases {
		got, err := ValidateSize(raw)
		if err != nil {
			t.Fatalf("ValidateSize(%T(%v)) unexpected error: %v", raw, raw, err)
		}
		if !got.Valid() {
			t.Fatalf("ValidateSize(%T(%v)) = %d", raw, raw, got)
		}
	}

	for _, raw := range []any{int32(4), uint(21), uint64(1 << 63), float32(2.5)} {
		if _, err := ValidateSize(raw); err == nil {
			t.Fatalf("ValidateSize(%T(%v)) expected error", raw, raw)
		}
	}
}

func TestValidateSizeRejectsEverythingElse(t *testing.T) {
	t.Parallel()

	cases := []any{0, -1, 4, 6, 21, 100, 2.5, "3", true, nil, map[string]any{"value": 3}, []any{3}}
	for _, raw := range cases {
		if _, err := ValidateSize(raw); err == nil {
			t.Fatalf("ValidateSize(%#v) expected error", raw)
		} else {
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		}
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	if got, err := ParseSize(" 8 "); err != nil || got != 8 {
		t.Fatalf("ParseSize(8) = %d, %v", got, err)
	}
	if _, err := ParseSize("7"); err == nil {
		t.Fatalf("expected error for 7")
	}
	if _, err := ParseSize("large"); err == nil {
		t.Fatalf("expected error for non-numeric input")
	}
}

func TestValidateRecordsRejectUnknownIDs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		validate func(any) error
		valid    []int
		invalid  []int
	}{
		{
			name:     "priority",
			validate: func(raw any) error { _, err := ValidatePriority(raw); return err },
			valid:    []int{1, 2, 3, 4, 10200},
			invalid:  []int{0, 5, 10300, -1},
		},
		{
			name:     "issue type",
			validate: func(raw any) error { _, err := ValidateIssueType(raw); return err },
			valid:    []int{1, 3, 16, 17},
			invalid:  []int{2, 4, 18, 0},
		},
		{
			name:     "issue status",
			validate: func(raw any) error { _, err := ValidateIssueStatus(raw); return err },
			valid:    []int{11, 81, 111, 41, 101},
			invalid:  []int{61, 1, 0, 12},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for _, id := range tc.valid {
				if err := tc.validate(map[string]any{"id": float64(id), "name": "anything"}); err != nil {
					t.Fatalf("id %d: unexpected error: %v", id, err)
				}
			}
			for _, id := range tc.invalid {
				for _, name := range []string{"", "Blocker", "New", "Bug"} {
					if err := tc.validate(map[string]any{"id": float64(id), "name": name}); err == nil {
						t.Fatalf("id %d name %q: expected error", id, name)
					}
				}
			}
		})
	}
}

func TestValidatePriorityShapes(t *testing.T) {
	t.Parallel()

	got, err := ValidatePriority(map[string]any{"id": "3", "name": "Major", "iconUrl": "https://x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Priority{ID: 3, Name: "Major"}) {
		t.Fatalf("unexpected priority %#v", got)
	}

	got, err = ValidatePriority(map[string]any{"id": float64(10200), "name": "Whatever the server says"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Whatever the server says" {
		t.Fatalf("expected server name to be kept, got %q", got.Name)
	}

	bad := []any{
		nil,
		"Major",
		[]any{},
		map[string]any{"name": "Major"},
		map[string]any{"id": 3},
		map[string]any{"id": 3, "name": 42},
		map[string]any{"id": 3.5, "name": "Major"},
		map[string]any{"id": "three", "name": "Major"},
		map[string]any{"id": true, "name": "Major"},
	}
	for _, raw := range bad {
		if _, err := ValidatePriority(raw); err == nil {
			t.Fatalf("ValidatePriority(%#v) expected error", raw)
		}
	}
}

func TestValidateRecordsRequireCanonicalIDs(t *testing.T) {
	t.Parallel()

	bad := []map[string]any{
		{"id": "+3", "name": "Major"},
		{"id": "03", "name": "Major"},
		{"id": " 3", "name": "Major"},
		{"id": "3 ", "name": "Major"},
		{"id": "-3", "name": "Major"},
		{"id": "0x3", "name": "Major"},
		{"id": json.Number("03"), "name": "Major"},
		{"ID": 3, "name": "Major"},
		{"Id": "3", "name": "Major"},
		{"id": "3", "Name": "Major"},
	}
	for _, raw := range bad {
		if _, err := ValidatePriority(raw); err == nil {
			t.Fatalf("ValidatePriority(%#v) expected error", raw)
		}
	}

	if _, err := ValidateIssueStatus(map[string]any{"id": "011", "name": "New"}); err == nil {
		t.Fatalf("expected leading zero status id to be rejected")
	}
	if got, err := ValidateIssueStatus(map[string]any{"id": json.Number("111"), "name": "In Progress"}); err != nil || got.ID != 111 {
		t.Fatalf("ValidateIssueStatus(json.Number) = %#v, %v", got, err)
	}
}

func TestValidateRecordsAcceptGoIntegerIDs(t *testing.T) {
	t.Parallel()

	for _, raw := range []map[string]any{
		{"id": uint8(3), "name": "Major"},
		{"id": int32(3), "name": "Major"},
	} {
		if got, err := ValidatePriority(raw); err != nil || got.ID != 3 {
			t.Fatalf("ValidatePriority(%#v) = %#v, %v", raw, got, err)
		}
	}
}

func TestValidateIssueStatuses(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"id": "11", "name": "New"},
		map[string]any{"id": "111", "name": "In Progress"},
	}
	got, err := ValidateIssueStatuses(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []IssueStatus{{ID: 11, Name: "New"}, {ID: 111, Name: "In Progress"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	raw = append(raw, map[string]any{"id": "61", "name": "Closed"})
	if _, err := ValidateIssueStatuses(raw); err == nil {
		t.Fatalf("expected a closed status to fail the whole sequence")
	}

	if _, err := ValidateIssueStatuses(map[string]any{}); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestDefaultsKeepDeclarationOrder(t *testing.T) {
	t.Parallel()

	priorities := []Priority{{1, "Blocker"}, {2, "Critical"}, {3, "Major"}, {10200, "Normal"}, {4, "Minor"}}
	types := []IssueType{{1, "Bug"}, {3, "Task"}, {16, "Epic"}, {17, "Story"}}
	statuses := []IssueStatus{{11, "New"}, {81, "Planning"}, {111, "In Progress"}, {41, "Integration"}, {101, "Release Pending"}}
	sizes := []Size{1, 2, 3, 5, 8, 13}

	for i := 0; i < 3; i++ {
		if got := DefaultPriorities(); !reflect.DeepEqual(got, priorities) {
			t.Fatalf("DefaultPriorities() = %#v", got)
		}
		if got := DefaultIssueTypes(); !reflect.DeepEqual(got, types) {
			t.Fatalf("DefaultIssueTypes() = %#v", got)
		}
		if got := DefaultIssueStatuses(); !reflect.DeepEqual(got, statuses) {
			t.Fatalf("DefaultIssueStatuses() = %#v", got)
		}
		if got := DefaultSizes(); !reflect.DeepEqual(got, sizes) {
			t.Fatalf("DefaultSizes() = %#v", got)
		}
	}
}

func TestDefaultsReturnCopies(t *testing.T) {
	t.Parallel()

	p := DefaultPriorities()
	p[0].Name = "mutated"
	if DefaultPriorities()[0].Name != "Blocker" {
		t.Fatalf("defaults should not reflect caller mutation")
	}
}

func TestStyleTables(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		styles map[int]lipgloss.Style
		key    int
		color  lipgloss.Color
		bold   bool
	}{
		{"size 1", sizeStyles, 1, "2", false},
		{"size 2", sizeStyles, 2, "2", false},
		{"size 3", sizeStyles, 3, "3", false},
		{"size 5", sizeStyles, 5, "3", true},
		{"size 8", sizeStyles, 8, "1", false},
		{"size 13", sizeStyles, 13, "1", true},
		{"blocker", priorityStyles, PriorityBlocker, "1", true},
		{"critical", priorityStyles, PriorityCritical, "1", false},
		{"major", priorityStyles, PriorityMajor, "3", false},
		{"minor", priorityStyles, PriorityMinor, "6", false},
		{"new", issueStatusStyles, StatusNew, "6", false},
		{"planning", issueStatusStyles, StatusPlanning, "6", false},
		{"in progress", issueStatusStyles, StatusInProgress, "4", false},
		{"integration", issueStatusStyles, StatusIntegration, "2", false},
		{"release pending", issueStatusStyles, StatusReleasePending, "2", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			style, ok := tc.styles[tc.key]
			if !ok {
				t.Fatalf("no style for %d", tc.key)
			}
			if got := style.GetForeground(); got != tc.color {
				t.Fatalf("foreground = %v, want %v", got, tc.color)
			}
			if style.GetBold() != tc.bold {
				t.Fatalf("bold = %t, want %t", style.GetBold(), tc.bold)
			}
		})
	}
}

func TestUnmappedValuesFallThroughUnstyled(t *testing.T) {
	t.Parallel()

	if _, ok := priorityStyles[PriorityNormal]; ok {
		t.Fatalf("normal priority should be unstyled")
	}
	if got := (Priority{ID: PriorityNormal, Name: "Normal"}).Label(); got != "Normal" {
		t.Fatalf("Label() = %q, want plain name", got)
	}
	if got := (IssueStatus{ID: 61, Name: "Closed"}).Label(); got != "Closed" {
		t.Fatalf("Label() = %q, want plain name", got)
	}
	if got := Size(4).Label(); got != "4" {
		t.Fatalf("Label() = %q, want plain value", got)
	}
	if got := (IssueType{ID: 99, Name: "Spike"}).Symbol(); got != "Spike" {
		t.Fatalf("Symbol() = %q, want name", got)
	}
	if got := (IssueType{ID: IssueTypeBug, Name: "Bug"}).Symbol(); got != "🐛" {
		t.Fatalf("Symbol() = %q", got)
	}
}

func TestParseIssueID(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"RHEL", "rhel-1", "RHEL-", "-1", "RHEL-1a", " RHEL-1", ""} {
		if _, err := ParseIssueID(bad); err == nil {
			t.Fatalf("ParseIssueID(%q) expected error", bad)
		}
	}
	for _, good := range []string{"RHEL-35732", "RHEL-1", "ABC_2-10"} {
		if id, err := ParseIssueID(good); err != nil || id.String() != good {
			t.Fatalf("ParseIssueID(%q) = %q, %v", good, id, err)
		}
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"major": 3, "Blocker": 1, "10200": 10200, " normal ": 10200, "4": 4}
	for in, want := range cases {
		p, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q) error: %v", in, err)
		}
		if p.ID != want {
			t.Fatalf("ParsePriority(%q) = %d, want %d", in, p.ID, want)
		}
	}
	for _, bad := range []string{"", "Undefined", "10300", "0"} {
		if _, err := ParsePriority(bad); err == nil {
			t.Fatalf("ParsePriority(%q) expected error", bad)
		}
	}
}

func TestChoices(t *testing.T) {
	t.Parallel()

	if _, ok := SizeClear.Size(); ok {
		t.Fatalf("clear is a control, not a size")
	}
	if _, ok := SizeCancel.Size(); ok {
		t.Fatalf("cancel is a control, not a size")
	}
	if s, ok := SizeChoice(5).Size(); !ok || s != 5 {
		t.Fatalf("expected size 5, got %d %t", s, ok)
	}

	if _, ok := PriorityClear.Priority(); ok {
		t.Fatalf("clear is a control, not a priority")
	}
	if _, ok := PriorityCancel.Priority(); ok {
		t.Fatalf("cancel is a control, not a priority")
	}
	major, _ := PriorityByID(PriorityMajor)
	if p, ok := ChoiceOf(major).Priority(); !ok || p != major {
		t.Fatalf("round trip through choice failed: %#v %t", p, ok)
	}
}
