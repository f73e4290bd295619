// Package extracttest provides test helpers for the extract package.
package extracttest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bjaus/extract"
)

// Dispatch runs one dispatch and fails the test if it returns an error.
func Dispatch[S any](t testing.TB, rt *extract.Route[S], req *extract.Request, state S) extract.Response {
	t.Helper()
	resp, err := rt.Dispatch(req, state)
	if err != nil {
		t.Fatalf("extracttest: dispatch %s: %v", rt.Name(), err)
	}
	return resp
}

// Clone duplicates req and fails the test if it cannot be duplicated.
func Clone(t testing.TB, req *extract.Request) *extract.Request {
	t.Helper()
	c, err := req.Clone()
	if err != nil {
		t.Fatalf("extracttest: clone request: %v", err)
	}
	return c
}

// JSON encodes v as a JSON payload.
func JSON(t testing.TB, v any) []byte {
	t.Helper()
	return encode(t, extract.JSONCodec, v)
}

// YAML encodes v as a YAML payload.
func YAML(t testing.TB, v any) []byte {
	t.Helper()
	return encode(t, extract.YAMLCodec, v)
}

// XML encodes v as an XML payload.
func XML(t testing.TB, v any) []byte {
	t.Helper()
	return encode(t, extract.XMLCodec, v)
}

func encode(t testing.TB, enc extract.Encoder, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc.Encode(&buf, v); err != nil {
		t.Fatalf("extracttest: encode %s: %v", enc.ContentType(), err)
	}
	return buf.Bytes()
}

// Client wraps an httptest.Server for testing routes served by
// extract.Handler.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client for h.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a raw HTTP response with its body read.
type Response struct {
	Status  int
	Headers http.Header
	Body    string
	Raw     *http.Response
}

// Get sends a GET request.
func Get(t testing.TB, c *Client, path string) *Response {
	t.Helper()
	return Do(t, c, http.MethodGet, path, nil, nil)
}

// Post sends a POST request with the given content type and body.
func Post(t testing.TB, c *Client, path, contentType string, body []byte) *Response {
	t.Helper()
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return Do(t, c, http.MethodPost, path, h, body)
}

// Do sends a request and reads the whole response body.
func Do(t testing.TB, c *Client, method, path string, header http.Header, body []byte) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("extracttest: create request: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("extracttest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("extracttest: close body: %v", closeErr)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("extracttest: read body: %v", err)
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    string(b),
		Raw:     resp,
	}
}
