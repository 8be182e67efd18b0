package atlassian

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// Error represents a REST error response.
type Error struct {
	StatusCode    int               `json:"-"`
	Message       string            `json:"message"`
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch {
	case e.Message != "":
		return fmt.Sprintf("atlassian: %d %s", e.StatusCode, e.Message)
	case len(e.ErrorMessages) > 0:
		return fmt.Sprintf("atlassian: %d %s", e.StatusCode, e.ErrorMessages[0])
	case len(e.Errors) > 0:
		return fmt.Sprintf("atlassian: %d %s", e.StatusCode, e.fieldErrors())
	}
	return fmt.Sprintf("atlassian: %d", e.StatusCode)
}

// fieldErrors renders per-field messages in a stable order.
func (e *Error) fieldErrors() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Errors[k])
	}
	return strings.Join(parts, "; ")
}

func parseError(res *http.Response) error {
	data, _ := io.ReadAll(res.Body)
	errRes := &Error{StatusCode: res.StatusCode}
	if len(data) > 0 {
		_ = json.Unmarshal(data, errRes)
	}

	if errRes.Message == "" && len(errRes.ErrorMessages) == 0 && len(errRes.Errors) == 0 {
		errRes.Message = strings.TrimSpace(string(data))
	}

	return errRes
}
