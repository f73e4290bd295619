package extract

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
)

// Dispatcher is a single dispatch of a request and state to a response.
type Dispatcher[S any] func(req *Request, state S) (Response, error)

// Route packages a handler with its extraction plan. A Route is safe to
// dispatch any number of times, concurrently, with independent requests;
// it keeps no state between dispatches.
type Route[S any] struct {
	name       string
	plan       *plan
	middleware []Middleware[S]

	decoding  *decoding
	bodyLimit int64
	params    []string
}

// decoding is the body decoding configuration of a route.
type decoding struct {
	codecs    *codecRegistry
	validator Validator
}

// routeConfig collects RouteOption values before the route is built.
type routeConfig struct {
	name      string
	decoders  []Decoder
	validator Validator
	bodyLimit int64
	params    []string
}

// RouteOption configures a route at construction time.
type RouteOption func(*routeConfig)

// WithName sets the route name used in logs. It defaults to the handler's
// function name.
func WithName(name string) RouteOption {
	return func(rc *routeConfig) {
		rc.name = name
	}
}

// WithDecoder registers an additional body decoder for Body[T]. A decoder
// for a content type that is already registered replaces it.
func WithDecoder(dec Decoder) RouteOption {
	return func(rc *routeConfig) {
		rc.decoders = append(rc.decoders, dec)
	}
}

// WithValidator sets a validator run on every decoded body.
func WithValidator(v Validator) RouteOption {
	return func(rc *routeConfig) {
		rc.validator = v
	}
}

// WithBodyLimit sets the maximum body size in bytes the HTTP adapter reads
// for this route.
func WithBodyLimit(maxBytes int64) RouteOption {
	return func(rc *routeConfig) {
		rc.bodyLimit = maxBytes
	}
}

// WithParams declares path parameter names the HTTP adapter copies into
// Parts.Params, in addition to those named by Param[K] parameters.
func WithParams(names ...string) RouteOption {
	return func(rc *routeConfig) {
		rc.params = append(rc.params, names...)
	}
}

// New builds a route for handler with state type S. The handler must be a
// func whose parameters are extractor types and whose results are Response
// or (Response, error). Every parameter but the last must implement
// FromParts; the last may implement either capability. Violations are
// reported here and wrap ErrMisuse.
func New[S any](handler any, opts ...RouteOption) (*Route[S], error) {
	p, err := newPlan[S](handler)
	if err != nil {
		return nil, err
	}

	var rc routeConfig
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.name == "" {
		rc.name = funcName(p.fn)
	}

	params := slices.Concat(p.params, rc.params)
	slices.Sort(params)

	return &Route[S]{
		name: rc.name,
		plan: p,
		decoding: &decoding{
			codecs:    newCodecRegistry(rc.decoders),
			validator: rc.validator,
		},
		bodyLimit: rc.bodyLimit,
		params:    slices.Compact(params),
	}, nil
}

// Must is like New but panics if the handler cannot be dispatched.
func Must[S any](handler any, opts ...RouteOption) *Route[S] {
	rt, err := New[S](handler, opts...)
	if err != nil {
		panic(fmt.Sprintf("extract: %v", err))
	}
	return rt
}

// Wrap turns handler into a reusable dispatch function. It panics if the
// handler cannot be dispatched.
func Wrap[S any](handler any, opts ...RouteOption) Dispatcher[S] {
	return Must[S](handler, opts...).Func()
}

// Use adds middleware to the route. Middleware is applied in the order added.
func (rt *Route[S]) Use(mw ...Middleware[S]) *Route[S] {
	rt.middleware = append(rt.middleware, mw...)
	return rt
}

// Name returns the route name.
func (rt *Route[S]) Name() string { return rt.name }

// Arity returns the number of handler parameters.
func (rt *Route[S]) Arity() int { return len(rt.plan.slots) }

// Params returns the path parameter names the route reads.
func (rt *Route[S]) Params() []string { return slices.Clone(rt.params) }

// Func returns the route as a plain dispatch function.
func (rt *Route[S]) Func() Dispatcher[S] { return rt.Dispatch }

// Dispatch runs one isolated dispatch of req and state through the
// route's middleware and handler.
func (rt *Route[S]) Dispatch(req *Request, state S) (Response, error) {
	d := Dispatcher[S](rt.dispatch)
	for i := len(rt.middleware) - 1; i >= 0; i-- {
		d = rt.middleware[i](d)
	}
	return d(req, state)
}

// dispatch attaches the route's decoding configuration to req while the
// extractors run. It is detached afterwards so nothing of this route
// survives in the request or in clones made from it.
func (rt *Route[S]) dispatch(req *Request, state S) (Response, error) {
	if req != nil {
		req.decoding = rt.decoding
		defer func() { req.decoding = nil }()
	}
	return dispatch(rt.plan, req, state)
}

func funcName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return fn.Type().String()
}
