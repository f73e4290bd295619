package extract

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Middleware wraps a dispatch. It may inspect or modify the request before
// calling next and the response or error after it.
type Middleware[S any] func(next Dispatcher[S]) Dispatcher[S]

// Recovery returns middleware that recovers from handler panics and turns
// them into an error wrapping ErrPanic.
func Recovery[S any]() Middleware[S] {
	return func(next Dispatcher[S]) Dispatcher[S] {
		return func(req *Request, state S) (resp Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					attrs := []any{"panic", rec, "stack", string(debug.Stack())}
					if req != nil {
						attrs = append(attrs, "method", req.Parts.Method, "path", req.Parts.Path)
					}
					slog.Error("panic recovered", attrs...)
					resp, err = Response{}, fmt.Errorf("%w: %v", ErrPanic, rec)
				}
			}()
			return next(req, state)
		}
	}
}
