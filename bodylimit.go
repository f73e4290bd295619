package extract

import "fmt"

// BodyLimit returns middleware that rejects requests whose body is larger
// than maxBytes. The body is measured, not taken.
func BodyLimit[S any](maxBytes int) Middleware[S] {
	return func(next Dispatcher[S]) Dispatcher[S] {
		return func(req *Request, state S) (Response, error) {
			if req != nil && req.Len() > maxBytes {
				return Response{}, fmt.Errorf("%w: %d > %d bytes", ErrBodyTooLarge, req.Len(), maxBytes)
			}
			return next(req, state)
		}
	}
}
