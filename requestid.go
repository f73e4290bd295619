package extract

import "github.com/google/uuid"

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	Generator func() string // default: random UUID
}

// RequestID returns middleware that assigns Parts.ID when the transport did
// not supply one.
func RequestID[S any](cfg ...RequestIDConfig) Middleware[S] {
	gen := uuid.NewString
	if len(cfg) > 0 && cfg[0].Generator != nil {
		gen = cfg[0].Generator
	}

	return func(next Dispatcher[S]) Dispatcher[S] {
		return func(req *Request, state S) (Response, error) {
			if req != nil && req.Parts.ID == "" {
				req.Parts.ID = gen()
			}
			return next(req, state)
		}
	}
}
