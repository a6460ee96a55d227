package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	statuses []int
}

func (o *recordingObserver) ObserveUpstream(_ string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func TestURLFor(t *testing.T) {
	c := New(Config{APIRoot: "https://api.example.com/api/", AppURL: "https://admin.example.com"}, nil, nil)

	assert.Equal(t, "https://api.example.com/api/commerce/products", c.URLFor("/commerce/products", false))
	assert.Equal(t, "https://admin.example.com/api/commerce/products", c.URLFor("commerce/products", true))
	assert.Equal(t, "https://cdn.example.com/x", c.URLFor("https://cdn.example.com/x", false))
}

// A successful list call forwards query params and the bearer token and
// exposes the results envelope.
func TestDo_ListWithParamsAndToken(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"count":2,"results":[{"id":1,"name":"Oud"},{"id":2,"name":"Musk"}]}`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(Config{APIRoot: srv.URL}, nil, obs)

	resp, err := c.WithToken("tok-1").Do(context.Background(), Request{
		URL:    "/commerce/products",
		Params: url.Values{"page": {"2"}, "limit": {"10"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "10", gotQuery.Get("limit"))
	assert.Equal(t, "Bearer tok-1", gotAuth)

	page, err := resp.Page()
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Oud", page.Results[0]["name"])
	assert.Equal(t, json.Number("1"), page.Results[0]["id"])
	assert.Equal(t, []int{http.StatusOK}, obs.statuses)
}

func TestDo_JSONBody(t *testing.T) {
	var body map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7}`)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: srv.URL}, nil, nil)
	resp, err := c.Do(context.Background(), Request{
		URL:    "/commerce/orders/7/update_status",
		Method: http.MethodPost,
		Data:   map[string]string{"status": "shipped"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.True(t, strings.HasPrefix(contentType, "application/json"))
	assert.Equal(t, "shipped", body["status"])
}

func TestDo_Multipart(t *testing.T) {
	var name, fileName string
	var fileBytes []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		name = r.FormValue("name")
		f, hdr, err := r.FormFile("_images")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		fileName = hdr.Filename
		fileBytes, _ = io.ReadAll(f)
		_, _ = io.WriteString(w, `{"id":1}`)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: srv.URL}, nil, nil)
	_, err := c.Do(context.Background(), Request{
		URL:    "/commerce/products",
		Method: http.MethodPost,
		Multipart: &Multipart{
			Fields: url.Values{"name": {"Oud Royal"}},
			Files:  []File{{Field: "_images", Name: "a.jpg", ContentType: "image/jpeg", Content: []byte("jpeg")}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Oud Royal", name)
	assert.Equal(t, "a.jpg", fileName)
	assert.Equal(t, []byte("jpeg"), fileBytes)
}

// A multipart form without files still goes out as multipart.
func TestDo_MultipartWithoutFiles(t *testing.T) {
	var contentType string
	var tags []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		tags = r.MultipartForm.Value["tags"]
		_, _ = io.WriteString(w, `{"id":1}`)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: srv.URL}, nil, nil)
	_, err := c.Do(context.Background(), Request{
		URL:    "/commerce/products/4",
		Method: http.MethodPut,
		Multipart: &Multipart{
			Fields: url.Values{"name": {"Rose"}, "tags": {"floral", "fresh"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"), contentType)
	assert.Equal(t, []string{"floral", "fresh"}, tags)
}

// Field-keyed backend errors are carried through untouched.
func TestDo_FieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"name":["already exists"],"detail":"Invalid data"}`)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: srv.URL}, nil, nil)
	_, err := c.Do(context.Background(), Request{URL: "/commerce/categories", Method: http.MethodPost, Data: map[string]string{}})
	require.Error(t, err)

	ae, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Invalid data", ae.Message)
	assert.Equal(t, map[string][]string{"name": {"already exists"}}, ae.FieldErrors())
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestDo_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html>boom</html>`)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: srv.URL}, nil, nil)
	_, err := c.Do(context.Background(), Request{URL: "/commerce/stats"})
	ae, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Request failed with status code 500", ae.Message)
	assert.Nil(t, ae.FieldErrors())
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	obs := &recordingObserver{}
	c := New(Config{APIRoot: srv.URL}, nil, obs)
	_, err := c.Do(context.Background(), Request{URL: "/commerce/stats"})
	ae, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 0, ae.Status)
	assert.Equal(t, "Network Error", ae.Message)
	assert.NotNil(t, ae.Unwrap())
	assert.Equal(t, []int{0}, obs.statuses)
}

func TestDo_NoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: srv.URL}, nil, nil)
	_, err := c.Do(context.Background(), Request{URL: "/commerce/stats"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestResponse_PageBareArray(t *testing.T) {
	r := &Response{Data: json.RawMessage(`[{"id":1}]`)}
	p, err := r.Page()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count)
}

// UseNext on the client routes every request through the app's own /api
// proxy.
func TestDo_ClientWideUseNext(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(Config{APIRoot: "http://127.0.0.1:1", AppURL: srv.URL, UseNext: true}, nil, nil)
	_, err := c.Do(context.Background(), Request{URL: "/commerce/orders"})
	require.NoError(t, err)
	assert.Equal(t, "/api/commerce/orders", gotPath)
}
