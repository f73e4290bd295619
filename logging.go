package extract

import (
	"context"
	"log/slog"
	"time"
)

// Logger returns middleware that logs each dispatch using the provided
// slog.Logger. Failed dispatches are logged at warn level with the error
// and the status it maps to. Use logger.With to attach the route name.
func Logger[S any](logger *slog.Logger) Middleware[S] {
	return func(next Dispatcher[S]) Dispatcher[S] {
		return func(req *Request, state S) (Response, error) {
			start := time.Now()
			var size int
			if req != nil {
				size = req.Len()
			}

			resp, err := next(req, state)

			attrs := make([]slog.Attr, 0, 8)
			if req != nil {
				attrs = append(attrs,
					slog.String("method", req.Parts.Method),
					slog.String("path", req.Parts.Path),
				)
				if req.Parts.ID != "" {
					attrs = append(attrs, slog.String("request_id", req.Parts.ID))
				}
			}
			attrs = append(attrs,
				slog.Int("body", size),
				slog.Duration("latency", time.Since(start)),
			)

			if err != nil {
				attrs = append(attrs,
					slog.Int("status", ErrorStatus(err)),
					slog.String("error", err.Error()),
				)
				logger.LogAttrs(context.Background(), slog.LevelWarn, "dispatch", attrs...)
				return resp, err
			}

			attrs = append(attrs,
				slog.Int("status", resp.StatusCode()),
				slog.Int("size", len(resp.Content)),
			)
			logger.LogAttrs(context.Background(), slog.LevelInfo, "dispatch", attrs...)
			return resp, nil
		}
	}
}
