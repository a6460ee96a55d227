package datatable

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one row as returned by the backend.
type Record map[string]any

// Lookup resolves a dot path such as "category.name".
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String formats the value at path for display. Missing and null values
// render as the empty string.
func (r Record) String(path string) string {
	v, ok := r.Lookup(path)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// ID returns the row's "id".
func (r Record) ID() string { return r.String("id") }

func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Records converts raw backend rows.
func Records(rows []map[string]any) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record(r))
	}
	return out
}
