package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// defaultBodyLimit caps bodies read by the HTTP adapter when the route has
// no WithBodyLimit (1 MiB).
const defaultBodyLimit = 1 << 20

// Handler adapts a route to net/http. Each request is fully read, turned
// into a Request, and dispatched with state.
func Handler[S any](rt *Route[S], state S) http.Handler {
	limit := rt.bodyLimit
	if limit <= 0 {
		limit = defaultBodyLimit
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					err = fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, mbe.Limit)
				}
				writeErrorResponse(w, err)
				return
			}
		}

		parts := PartsFromHTTP(r, rt.params...)
		if parts.ID == "" {
			parts.ID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, parts.ID)

		resp, err := rt.Dispatch(NewRequest(parts, body), state)
		if err != nil {
			writeErrorResponse(w, err)
			return
		}
		writeResponse(w, resp)
	})
}

const requestIDHeader = "X-Request-ID"

// PartsFromHTTP builds Parts from an HTTP request. Only the named path
// parameters are copied, since net/http cannot enumerate them.
func PartsFromHTTP(r *http.Request, params ...string) Parts {
	p := Parts{
		Method: r.Method,
		Path:   r.URL.Path,
		ID:     r.Header.Get(requestIDHeader),
		Remote: r.RemoteAddr,
		Header: r.Header.Clone(),
		Query:  r.URL.Query(),
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		p.Remote = host
	}
	for _, name := range params {
		if val := r.PathValue(name); val != "" {
			if p.Params == nil {
				p.Params = make(map[string]string, len(params))
			}
			p.Params[name] = val
		}
	}
	return p
}

func writeResponse(w http.ResponseWriter, resp Response) {
	ct := resp.ContentType
	if ct == "" {
		ct = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.StatusCode())
	//nolint:errcheck,gosec // best-effort after WriteHeader
	io.WriteString(w, resp.Content)
}

// writeErrorResponse writes an error as an RFC 9457 problem details response.
func writeErrorResponse(w http.ResponseWriter, err error) {
	status := ErrorStatus(err)

	// If the error carries a ProblemDetail, use it directly.
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(pd.Status)
		//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
		jsonAPI.NewEncoder(w).Encode(pd)
		return
	}

	// Convert any error into a ProblemDetail.
	problem := &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	jsonAPI.NewEncoder(w).Encode(problem)
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
