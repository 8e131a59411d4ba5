// Package apiclient is the typed gateway to the HRMS REST backend. It adds
// the caller's bearer token and request id to every call and turns a 401 on
// a protected endpoint into a session invalidation.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrmweb/internal/platform/metrics"
	"hrmweb/internal/requestctx"
)

var ErrSessionExpired = errors.New("session expired")

// authPaths answer 401 for bad credentials, not for an expired session.
var authPaths = map[string]struct{}{
	"/auth/login":    {},
	"/auth/register": {},
	"/auth/me":       {},
	"/auth/google":   {},
}

const maxResponseBytes = 32 << 20

type UnauthorizedFunc func(ctx context.Context)

type Client struct {
	BaseURL        string
	HTTP           *http.Client
	Metrics        *metrics.Collector
	OnUnauthorized UnauthorizedFunc
}

func New(baseURL string, timeout time.Duration, collector *metrics.Collector) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Metrics: collector,
	}
}

type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Multipart *Multipart
	// Header overrides the defaults, e.g. an explicit Authorization
	// during login before a session exists.
	Header http.Header
}

// Response is the raw transport response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Do sends one request. It never retries. Any status is returned as a
// Response; only transport failures and expired sessions produce an error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to encode request", Err: err}
	}

	target := c.BaseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := requestctx.Token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := requestctx.GetRequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	httpReq.Header.Set("X-Request-ID", reqID)
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = values
	}

	start := time.Now()
	httpResp, err := c.HTTP.Do(httpReq)
	if err != nil {
		c.Metrics.Record(0, time.Since(start))
		slog.Warn("backend request failed", "method", req.Method, "path", req.Path, "requestId", reqID, "err", err)
		return nil, &Error{Kind: KindTransport, Message: "request failed", Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	c.Metrics.Record(httpResp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: httpResp.StatusCode, Message: "failed to read response", Err: err}
	}
	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: raw}

	if resp.Status == http.StatusUnauthorized && !isAuthPath(req.Path) {
		slog.Info("backend rejected session", "path", req.Path, "requestId", reqID)
		if c.OnUnauthorized != nil {
			c.OnUnauthorized(ctx)
		}
		return resp, &Error{Kind: KindUnauthorized, Status: resp.Status, Message: "session expired", Err: ErrSessionExpired}
	}
	return resp, nil
}

// Call sends a request and decodes a successful body into out. Non-2xx
// responses become *Error.
func (c *Client) Call(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return Classify(resp)
	}
	return Decode(resp, out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Call(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Call(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

func (c *Client) Upload(ctx context.Context, path string, form *Multipart, out any) error {
	return c.Call(ctx, Request{Method: http.MethodPost, Path: path, Multipart: form}, out)
}

// File is a binary export returned by the backend.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

func (c *Client) Download(ctx context.Context, path string, query url.Values) (*File, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, Classify(resp)
	}
	file := &File{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		file.Name = params["filename"]
	}
	if file.ContentType == "" {
		file.ContentType = "application/octet-stream"
	}
	return file, nil
}

// Ping checks that the backend answers at all; any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Decode unwraps {"success":..,"data":..} envelopes; bare documents are
// decoded as-is.
func Decode(resp *Response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &envelope); err == nil {
		if data, ok := envelope["data"]; ok {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decode response data: %w", err)
			}
			return nil
		}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isAuthPath(path string) bool {
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	_, ok := authPaths[strings.TrimRight(path, "/")]
	return ok
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Multipart != nil {
		return req.Multipart.encode()
	}
	if req.Body == nil {
		return nil, "", nil
	}
	payload, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(payload), "application/json", nil
}
