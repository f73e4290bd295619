package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/bjaus/extract"
)

// Serve starts the HTTP server.
type Serve struct {
	Addr string `kong:"default=':8080',help='Address to listen on.'"`
}

// Run serves until interrupted.
func (s *Serve) Run(e *env) error {
	mux := http.NewServeMux()
	for _, r := range newRoutes(e.logger) {
		mux.Handle(r.pattern, extract.Handler(r.route, e.state))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e.logger.Info("starting server", "addr", s.Addr)

	if err := extract.ListenAndServe(ctx, s.Addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	e.logger.Info("server stopped")
	return nil
}
