package extract

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"reflect"
)

// State passes a duplicate of the dispatch state to the handler. T must be
// assignable from the route's state type; New rejects the handler otherwise.
type State[T any] struct {
	Value T
}

func (s *State[T]) FromParts(_ *Parts, state any) error {
	if state == nil && reflect.TypeFor[T]().Kind() == reflect.Interface {
		var zero T
		s.Value = zero
		return nil
	}
	val, ok := state.(T)
	if !ok {
		return fmt.Errorf("%w: want %s, got %T", ErrStateType, reflect.TypeFor[T](), state)
	}
	s.Value = val
	return nil
}

func (*State[T]) stateType() reflect.Type { return reflect.TypeFor[T]() }

// Method is the request method.
type Method string

func (m *Method) FromParts(parts *Parts, _ any) error {
	*m = Method(parts.Method)
	return nil
}

// Path is the request path.
type Path string

func (p *Path) FromParts(parts *Parts, _ any) error {
	*p = Path(parts.Path)
	return nil
}

// ID is the request identifier. It is empty unless the transport or the
// RequestID middleware assigned one.
type ID string

func (id *ID) FromParts(parts *Parts, _ any) error {
	*id = ID(parts.ID)
	return nil
}

// Remote is the remote address of the caller.
type Remote string

func (r *Remote) FromParts(parts *Parts, _ any) error {
	*r = Remote(parts.Remote)
	return nil
}

// Header is a copy of the request headers.
type Header http.Header

func (h *Header) FromParts(parts *Parts, _ any) error {
	*h = Header(parts.Header.Clone())
	if *h == nil {
		*h = Header{}
	}
	return nil
}

// Get returns the first value for key.
func (h Header) Get(key string) string { return http.Header(h).Get(key) }

// Query is a copy of the query parameters.
type Query url.Values

func (q *Query) FromParts(parts *Parts, _ any) error {
	*q = make(Query, len(parts.Query))
	for k, v := range parts.Query {
		(*q)[k] = append([]string(nil), v...)
	}
	return nil
}

// Get returns the first value for key.
func (q Query) Get(key string) string { return url.Values(q).Get(key) }

// Params is a copy of all path parameters.
type Params map[string]string

func (p *Params) FromParts(parts *Parts, _ any) error {
	*p = Params(maps.Clone(parts.Params))
	if *p == nil {
		*p = Params{}
	}
	return nil
}

// ParamKey names a single path parameter at the type level.
//
//	type userID struct{}
//	func (userID) ParamName() string { return "id" }
//
//	func get(id extract.Param[userID]) extract.Response { ... }
type ParamKey interface {
	ParamName() string
}

// Param is a single required path parameter. A missing parameter fails
// with ErrMissingField.
type Param[K ParamKey] struct {
	Value string
}

func (p *Param[K]) FromParts(parts *Parts, _ any) error {
	name := p.paramName()
	val, ok := parts.Params[name]
	if !ok {
		return fmt.Errorf("%w: param %q", ErrMissingField, name)
	}
	p.Value = val
	return nil
}

func (*Param[K]) paramName() string {
	var k K
	return k.ParamName()
}

type paramNamer interface {
	paramName() string
}

// Ext reads the typed extension value T without removing it.
type Ext[T any] struct {
	Value T
}

func (e *Ext[T]) FromParts(parts *Parts, _ any) error {
	val, ok := Lookup[T](parts)
	if !ok {
		return fmt.Errorf("%w: extension %s", ErrMissingField, reflect.TypeFor[T]())
	}
	e.Value = val
	return nil
}

// Take removes the typed extension value T from the parts. Extractors that
// run after it in the same dispatch no longer see the value.
type Take[T any] struct {
	Value T
}

func (t *Take[T]) FromParts(parts *Parts, _ any) error {
	val, ok := Remove[T](parts)
	if !ok {
		return fmt.Errorf("%w: extension %s", ErrMissingField, reflect.TypeFor[T]())
	}
	t.Value = val
	return nil
}

// Bytes is the raw request body.
type Bytes []byte

func (b *Bytes) FromRequest(req *Request, _ any) error {
	body, err := req.Take()
	if err != nil {
		return err
	}
	*b = body
	return nil
}

// Text is the request body as a string.
type Text string

func (t *Text) FromRequest(req *Request, _ any) error {
	body, err := req.Take()
	if err != nil {
		return err
	}
	*t = Text(body)
	return nil
}
