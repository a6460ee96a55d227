package datatable

import (
	"maps"
	"net/url"
	"strconv"
	"strings"
)

// Filters is the query state of a table.
type Filters struct {
	Page     int
	Limit    int
	Ordering string
	Search   string
	Extra    map[string]string
}

const (
	KeyPage     = "page"
	KeyLimit    = "limit"
	KeyOrdering = "ordering"
	KeySearch   = "search"
)

// MaxLimit caps the page size a browser can ask for.
const MaxLimit = 100

// Query encodes the filters as list request params. Empty values are left out.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set(KeyPage, strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set(KeyLimit, strconv.Itoa(f.Limit))
	}
	if f.Ordering != "" {
		q.Set(KeyOrdering, f.Ordering)
	}
	if f.Search != "" {
		q.Set(KeySearch, f.Search)
	}
	for k, v := range f.Extra {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// Get returns the value bound to key.
func (f Filters) Get(key string) string {
	switch key {
	case KeyPage:
		return strconv.Itoa(f.Page)
	case KeyLimit:
		return strconv.Itoa(f.Limit)
	case KeyOrdering:
		return f.Ordering
	case KeySearch:
		return f.Search
	default:
		return f.Extra[key]
	}
}

// With returns a copy with key set. Changing anything but the page sends
// the table back to page 1.
func (f Filters) With(key, value string) Filters {
	out := f.Clone()
	switch key {
	case KeyPage:
		out.Page = positive(value, f.Page)
		return out
	case KeyLimit:
		out.Limit = clampLimit(value, f.Limit)
	case KeyOrdering:
		out.Ordering = value
	case KeySearch:
		out.Search = value
	default:
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		out.Extra[key] = value
	}
	out.Page = 1
	return out
}

func (f Filters) Clone() Filters {
	out := f
	out.Extra = maps.Clone(f.Extra)
	return out
}

func (f Filters) Equal(o Filters) bool {
	if f.Page != o.Page || f.Limit != o.Limit || f.Ordering != o.Ordering || f.Search != o.Search {
		return false
	}
	return maps.Equal(nonEmpty(f.Extra), nonEmpty(o.Extra))
}

// FromQuery overlays browser query params onto defaults. Only the standard
// keys and extraKeys are read.
func FromQuery(defaults Filters, q url.Values, extraKeys ...string) Filters {
	out := defaults.Clone()
	if v := q.Get(KeyPage); v != "" {
		out.Page = positive(v, out.Page)
	}
	if v := q.Get(KeyLimit); v != "" {
		out.Limit = clampLimit(v, out.Limit)
	}
	if _, ok := q[KeyOrdering]; ok {
		out.Ordering = strings.TrimSpace(q.Get(KeyOrdering))
	}
	if _, ok := q[KeySearch]; ok {
		out.Search = strings.TrimSpace(q.Get(KeySearch))
	}
	for _, k := range extraKeys {
		if _, ok := q[k]; !ok {
			continue
		}
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		out.Extra[k] = strings.TrimSpace(q.Get(k))
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

func positive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func clampLimit(s string, def int) int {
	return min(positive(s, def), MaxLimit)
}

func nonEmpty(m map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
