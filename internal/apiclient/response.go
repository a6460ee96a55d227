package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the normalized result of a successful call.
type Response struct {
	Status int
	Data   json.RawMessage
}

// Decode unmarshals the body into dst. Numbers are kept as json.Number
// when dst is an interface or map.
func (r *Response) Decode(dst any) error {
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(r.Data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

// Page is the list envelope returned by collection endpoints.
type Page struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
}

// Page reads the {results, count} envelope. A bare JSON array is accepted
// as an unpaginated list.
func (r *Response) Page() (Page, error) {
	trimmed := bytes.TrimSpace(r.Data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []map[string]any
		if err := r.Decode(&rows); err != nil {
			return Page{}, err
		}
		return Page{Results: rows, Count: len(rows)}, nil
	}

	var p Page
	if err := r.Decode(&p); err != nil {
		return Page{}, err
	}
	if p.Results == nil {
		p.Results = []map[string]any{}
	}
	return p, nil
}
