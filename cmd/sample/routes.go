package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bjaus/extract"
)

// count is the "count" path parameter parsed as a small unsigned integer.
type count uint8

func (c *count) FromParts(parts *extract.Parts, _ any) error {
	raw, ok := parts.Params["count"]
	if !ok {
		return fmt.Errorf("%w: count", extract.ErrMissingField)
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return fmt.Errorf("%w: count: %w", extract.ErrDecode, err)
	}
	*c = count(n)
	return nil
}

type repeatBody struct {
	Repeat int    `json:"repeat" minimum:"0" maximum:"1000"`
	Text   string `json:"text" required:"true"`
}

func hello() extract.Response {
	return extract.Respond("Hello, world!")
}

func withCountAndState(s extract.State[int], c count) extract.Response {
	return extract.Respondf("state: %d, count: %d", s.Value, c)
}

func withStateAndExpensive(s extract.State[int], body extract.Bytes) extract.Response {
	return extract.Respondf("state: %d, expensive: %d", s.Value, len(body))
}

func withJSON(body extract.JSON[repeatBody]) extract.Response {
	return extract.Respond(strings.Repeat(body.Value.Text, body.Value.Repeat))
}

type sampleRoute struct {
	pattern string
	route   *extract.Route[int]
}

func newRoutes(logger *slog.Logger) []sampleRoute {
	routes := []sampleRoute{
		{"GET /hello", extract.Must[int](hello, extract.WithName("hello"))},
		{"GET /count/{count}", extract.Must[int](withCountAndState, extract.WithName("count"), extract.WithParams("count"))},
		{"POST /expensive", extract.Must[int](withStateAndExpensive, extract.WithName("expensive"), extract.WithBodyLimit(64<<10))},
		{"POST /repeat", extract.Must[int](withJSON, extract.WithName("repeat"))},
	}

	for _, r := range routes {
		r.route.Use(
			extract.Recovery[int](),
			extract.RequestID[int](),
			extract.Logger[int](logger.With("route", r.route.Name())),
			extract.RateLimit[int](extract.RateLimitConfig{Rate: 50, Burst: 100}),
		)
	}
	return routes
}

// demoBody is the 37-byte payload of the reference scenario.
const demoBody = "{\n\t\t\t\"repeat\": 6,\n\t\t\t\"text\": \"hi\"\n\t\t}"

func demoRequest(countParam string) *extract.Request {
	return extract.NewRequest(extract.Parts{
		Method: "POST",
		Path:   "/demo",
		Remote: "127.0.0.1",
		Params: map[string]string{"count": countParam},
	}, []byte(demoBody))
}
