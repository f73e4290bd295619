// Command sample serves the reference handlers of the extract package over
// HTTP, or dispatches them in-process.
//
// Run:
//
//	go run ./cmd/sample serve --addr :8080
//	go run ./cmd/sample demo
//
// Then explore:
//
//	GET  http://localhost:8080/hello
//	GET  http://localhost:8080/count/10
//	POST http://localhost:8080/expensive        (any body)
//	POST http://localhost:8080/repeat           {"repeat": 6, "text": "hi"}
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// CLI is the command line interface of the sample.
type CLI struct {
	Serve Serve `kong:"cmd,help='Serve the sample routes over HTTP.'"`
	Demo  Demo  `kong:"cmd,help='Dispatch the sample routes in-process and print the responses.'"`

	State int `kong:"default='42',help='State value passed to every handler.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the logging level."`
	} `embed:"" prefix:"log-"`
}

// env is passed to every command's Run method.
type env struct {
	stdout io.Writer
	logger *slog.Logger
	state  int
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("sample"),
		kong.Description("Sample handlers for github.com/bjaus/extract."),
		kong.UsageOnError(),
		kong.DefaultEnvars("SAMPLE"),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
	)

	logger := newLogger(os.Stderr, cli.Log.Level)
	slog.SetDefault(logger)

	err := kctx.Run(&env{stdout: os.Stdout, logger: logger, state: cli.State})
	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "err", err)
		os.Exit(1)
	}
}

func newLogger(w *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    !isatty.IsTerminal(w.Fd()),
		TimeFormat: "2006-01-02 15:04:05.000",
	}))
}

// Demo dispatches the reference scenario without a network.
type Demo struct {
	Count string `kong:"default='10',help='Value of the count path parameter.'"`
}

// Run prints one line per route.
func (d *Demo) Run(e *env) error {
	for _, r := range newRoutes(e.logger) {
		req := demoRequest(d.Count)
		resp, err := r.route.Dispatch(req, e.state)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", r.route.Name(), err)
		}
		fmt.Fprintf(e.stdout, "%-20s %s\n", r.route.Name(), resp.Content)
	}
	return nil
}
