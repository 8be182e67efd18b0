package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Size is a story-point estimate on the Fibonacci-like scale.
type Size int

var sizes = [...]Size{1, 2, 3, 5, 8, 13}

var sizeStyles = map[int]lipgloss.Style{
	1:  styleGreen,
	2:  styleGreen,
	3:  styleYellow,
	5:  styleYellow.Bold(true),
	8:  styleRed,
	13: styleRed.Bold(true),
}

// DefaultSizes returns every permitted size in ascending order.
func DefaultSizes() []Size {
	return slices.Clone(sizes[:])
}

// Valid reports whether s is one of the permitted sizes.
func (s Size) Valid() bool {
	return slices.Contains(sizes[:], s)
}

func (s Size) String() string {
	return strconv.Itoa(int(s))
}

// Label renders the size with its terminal color.
func (s Size) Label() string {
	return render(sizeStyles, int(s), s.String())
}

// ValidateSize accepts a decoded JSON number or any Go integer kind and
// returns it as a Size when it is exactly one of the permitted integers.
// Strings, fractions and other integers are rejected rather than coerced.
func ValidateSize(raw any) (Size, error) {
	var n int
	switch v := raw.(type) {
	case Size:
		n = int(v)
	case string, bool, nil:
		return 0, &ValidationError{Kind: "size", Value: raw, Reason: "expected a number"}
	default:
		i, err := toInt(v)
		if err != nil {
			return 0, &ValidationError{Kind: "size", Value: raw, Reason: "expected an integer", Err: err}
		}
		n = i
	}

	size := Size(n)
	if !size.Valid() {
		return 0, &ValidationError{Kind: "size", Value: raw, Reason: "not a permitted story point value"}
	}
	return size, nil
}

// ParseSize parses user input such as a command-line flag.
func ParseSize(s string) (Size, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Kind: "size", Value: s, Reason: "expected an integer", Err: err}
	}
	return ValidateSize(n)
}

// SizeChoice is a Size or one of the out-of-band controls offered by
// interactive prompts. Controls are never written to the tracker.
type SizeChoice int

const (
	SizeClear  SizeChoice = 0
	SizeCancel SizeChoice = -1
)

// Size returns the underlying size when c is not a control value.
func (c SizeChoice) Size() (Size, bool) {
	s := Size(c)
	return s, s.Valid()
}

func (c SizeChoice) String() string {
	switch c {
	case SizeClear:
		return "clear"
	case SizeCancel:
		return "cancel"
	default:
		return fmt.Sprintf("%d", int(c))
	}
}
