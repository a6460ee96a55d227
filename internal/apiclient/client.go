// Package apiclient is the single gateway between the admin app and the
// e-commerce REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Config struct {
	APIRoot string
	AppURL  string
	Timeout time.Duration
	// UseNext sends every request through the frontend's /api proxy.
	UseNext bool
}

// Observer receives one observation per backend call.
type Observer interface {
	ObserveUpstream(method string, status int, elapsed time.Duration)
}

type Client struct {
	rc      *resty.Client
	apiRoot string
	appURL  string
	useNext bool
	log     *slog.Logger
	obs     Observer
}

func New(cfg Config, l *slog.Logger, obs Observer) *Client {
	rc := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if l == nil {
		l = slog.Default()
	}
	return &Client{
		rc:      rc,
		apiRoot: strings.TrimRight(cfg.APIRoot, "/"),
		appURL:  strings.TrimRight(cfg.AppURL, "/"),
		useNext: cfg.UseNext,
		log:     l,
		obs:     obs,
	}
}

// URLFor resolves a backend path against the configured root. Absolute
// URLs are returned untouched.
func (c *Client) URLFor(path string, useNext bool) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := c.apiRoot
	if useNext {
		base = c.appURL + "/api"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// Do sends req and normalizes the outcome. Non-2xx responses and transport
// failures come back as *Error. Nothing is retried.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.method()
	target := c.URLFor(req.URL, req.UseNext || c.useNext)

	r := c.rc.R().SetContext(ctx)
	if len(req.Params) > 0 {
		r.SetQueryParamsFromValues(req.Params)
	}
	for k, v := range req.ExtraHeaders {
		r.SetHeader(k, v)
	}

	switch {
	case req.Multipart != nil:
		// plain fields go in as parts too so a file-less form stays multipart
		for k, vs := range req.Multipart.Fields {
			for _, v := range vs {
				r.SetMultipartField(k, "", "", strings.NewReader(v))
			}
		}
		for _, f := range req.Multipart.Files {
			ct := f.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			r.SetMultipartField(f.Field, f.Name, ct, bytes.NewReader(f.Content))
		}
	case req.Data != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.Data)
	}

	start := time.Now()
	resp, err := r.Execute(method, target)
	elapsed := time.Since(start)

	if err != nil {
		c.observe(method, 0, elapsed)
		c.log.LogAttrs(ctx, slog.LevelWarn, "upstream_failed",
			slog.String("method", method),
			slog.String("url", target),
			slog.Duration("latency", elapsed),
			slog.Any("err", err),
		)
		return nil, &Error{Message: "Network Error", Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	c.observe(method, status, elapsed)

	level := slog.LevelDebug
	if status >= 400 {
		level = slog.LevelWarn
	}
	c.log.LogAttrs(ctx, level, "upstream_request",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", status),
		slog.Duration("latency", elapsed),
	)

	if status < 200 || status >= 300 {
		data := decodeBody(body)
		return nil, &Error{
			Status:  status,
			Message: messageFrom(status, data),
			Data:    data,
		}
	}

	return &Response{Status: status, Data: json.RawMessage(body)}, nil
}

// WithToken returns a Doer that authenticates every request with token.
func (c *Client) WithToken(token string) Doer {
	auth := BearerHeaders(token)
	return DoerFunc(func(ctx context.Context, req Request) (*Response, error) {
		if len(auth) > 0 {
			headers := make(map[string]string, len(req.ExtraHeaders)+1)
			for k, v := range auth {
				headers[k] = v
			}
			for k, v := range req.ExtraHeaders {
				headers[k] = v
			}
			req.ExtraHeaders = headers
		}
		return c.Do(ctx, req)
	})
}

func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.obs != nil {
		c.obs.ObserveUpstream(method, status, elapsed)
	}
}

func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(trimmed)
	}
	return v
}
