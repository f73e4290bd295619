package extract

import (
	"bytes"
	"fmt"
	"net/http"
)

// Response is what a handler produces. The dispatch core treats it as
// opaque; the HTTP adapter writes Status, ContentType and Content.
type Response struct {
	Status      int
	ContentType string
	Content     string
}

// StatusCode returns the response status, defaulting to 200.
func (r Response) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Respond returns a plain text response.
func Respond(content string) Response {
	return Response{Content: content}
}

// Respondf returns a formatted plain text response.
func Respondf(format string, args ...any) Response {
	return Response{Content: fmt.Sprintf(format, args...)}
}

// Encode renders v with enc into a response with the given status.
func Encode(enc Encoder, status int, v any) (Response, error) {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, v); err != nil {
		return Response{}, fmt.Errorf("encode %s: %w", enc.ContentType(), err)
	}
	return Response{
		Status:      status,
		ContentType: enc.ContentType(),
		Content:     buf.String(),
	}, nil
}
