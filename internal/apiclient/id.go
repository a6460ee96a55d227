package apiclient

import "strings"

// ID accepts both numeric and string identifiers from the backend.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string { return string(id) }
