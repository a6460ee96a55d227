package apiclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is returned for transport failures (Status 0) and non-2xx responses.
// Data holds the decoded backend payload: a field-keyed map, a message
// object, or the raw body text.
type Error struct {
	Status  int
	Message string
	Data    any
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("apiclient: %s", e.Message)
	}
	return fmt.Sprintf("apiclient: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// messageKeys are payload keys that carry a general message rather than a field error.
var messageKeys = map[string]bool{
	"message":          true,
	"detail":           true,
	"error":            true,
	"non_field_errors": true,
}

// FieldErrors returns the field-keyed part of the payload. Each value is
// flattened to a list of strings.
func (e *Error) FieldErrors() map[string][]string {
	m, ok := e.Data.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string][]string{}
	for k, v := range m {
		if messageKeys[k] {
			continue
		}
		if msgs := flatten(v); len(msgs) > 0 {
			out[k] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AsError unwraps err to *Error.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsStatus reports whether err is a backend error with the given status.
func IsStatus(err error, status int) bool {
	ae, ok := AsError(err)
	return ok && ae.Status == status
}

func messageFrom(status int, data any) string {
	switch v := data.(type) {
	case map[string]any:
		for _, k := range []string{"message", "detail", "error"} {
			if msgs := flatten(v[k]); len(msgs) > 0 {
				return strings.Join(msgs, " ")
			}
		}
		if msgs := flatten(v["non_field_errors"]); len(msgs) > 0 {
			return strings.Join(msgs, " ")
		}
	case string:
		if s := strings.TrimSpace(v); s != "" && len(s) <= 200 && !strings.HasPrefix(s, "<") {
			return s
		}
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func flatten(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, x := range t {
			out = append(out, flatten(x)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flatten(t[k])...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
