package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Request describes one call against the REST backend.
type Request struct {
	URL    string
	Method string
	Params url.Values
	// Data is sent as a JSON body unless Multipart is set.
	Data         any
	Multipart    *Multipart
	ExtraHeaders map[string]string
	// UseNext routes through the frontend app's /api proxy instead of the API root.
	UseNext bool
}

// Multipart carries form fields and file parts for uploads.
type Multipart struct {
	Fields url.Values
	Files  []File
}

type File struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// HasFiles reports whether any file part is attached.
func (m *Multipart) HasFiles() bool {
	return m != nil && len(m.Files) > 0
}

// Doer is what the rest of the app depends on to reach the backend.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(ctx context.Context, req Request) (*Response, error)

func (f DoerFunc) Do(ctx context.Context, req Request) (*Response, error) { return f(ctx, req) }

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// BearerHeaders builds the Authorization header used by the backend.
func BearerHeaders(token string) map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
