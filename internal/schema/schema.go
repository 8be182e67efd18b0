// Package schema holds the closed set of domain values the estimator works
// with and the validators that turn loosely-typed Jira JSON into them.
//
// Every record type (Priority, IssueType, IssueStatus) is validated the same
// way: the raw value must be a JSON object, its "id" must belong to the type's
// fixed set and its "name" must be a string. The server is trusted for display
// text, never for the discriminant. Validation never panics; callers receive a
// *ValidationError and decide whether to fall back to the Default tables.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/go-viper/mapstructure/v2"
)

// ValidationError reports raw server data that does not match a domain schema.
type ValidationError struct {
	Kind   string
	Value  any
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("schema: invalid %s %v: %s: %v", e.Kind, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema: invalid %s %v: %s", e.Kind, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var validate = validator.New()

func decodeRecord(kind string, raw any, out any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return &ValidationError{Kind: kind, Value: raw, Reason: "expected an object"}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: integerHook,
		MatchName:  func(key, field string) bool { return key == field },
		Result:     out,
	})
	if err != nil {
		return &ValidationError{Kind: kind, Value: raw, Reason: "decoder", Err: err}
	}

	if err := dec.Decode(obj); err != nil {
		return &ValidationError{Kind: kind, Value: raw, Reason: "malformed record", Err: err}
	}

	if err := validate.Struct(out); err != nil {
		return &ValidationError{Kind: kind, Value: obj["id"], Reason: "id outside the allowed set", Err: err}
	}

	return nil
}

// integerHook lets integer fields accept JSON numbers and the numeric strings
// Jira uses for ids, while rejecting fractions, booleans and anything else.
func integerHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	n, err := toInt(data)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// canonicalDigits matches the decimal form Jira uses for ids: no sign,
// no leading zeros, no whitespace.
var canonicalDigits = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return floatToInt(n)
	case json.Number:
		if !canonicalDigits.MatchString(n.String()) {
			return 0, fmt.Errorf("%q is not a canonical integer", n)
		}
		return atoi(n.String())
	case string:
		if !canonicalDigits.MatchString(n) {
			return 0, fmt.Errorf("%q is not a canonical integer", n)
		}
		return atoi(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", i)
		}
		return int(i), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", u)
		}
		return int(u), nil
	case reflect.Float32:
		return floatToInt(rv.Float())
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt || f > math.MaxInt {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int(f), nil
}

func atoi(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer: %w", s, err)
	}
	return i, nil
}

func requireName(kind string, raw any, name *string) (string, error) {
	if name == nil {
		return "", &ValidationError{Kind: kind, Value: raw, Reason: "missing name"}
	}
	return *name, nil
}
