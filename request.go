package extract

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"reflect"
)

// Parts is the portion of a request that is never consumed. Extractors
// receive a pointer to the live Parts of a dispatch so they can claim a
// field, but Parts itself is a plain value: Clone it to get an independent
// copy.
type Parts struct {
	Method string
	Path   string
	ID     string
	Remote string

	Header http.Header
	Query  url.Values
	Params map[string]string

	ext map[reflect.Type]extension
}

// Clone returns a deep copy of p. Mutating the copy never affects p.
// Extension values are copied with their Clone method when they implement
// Cloner, and by reflection otherwise.
func (p Parts) Clone() Parts {
	c := p
	c.Header = p.Header.Clone()
	if p.Query != nil {
		c.Query = make(url.Values, len(p.Query))
		for k, v := range p.Query {
			c.Query[k] = append([]string(nil), v...)
		}
	}
	c.Params = maps.Clone(p.Params)
	if p.ext != nil {
		c.ext = make(map[reflect.Type]extension, len(p.ext))
		for k, e := range p.ext {
			c.ext[k] = extension{val: e.dup(e.val), dup: e.dup}
		}
	}
	return c
}

// Insert stores a typed extension value in the parts, replacing any value
// of the same type. Values that hold cycles must implement Cloner[T] to
// survive Clone.
func Insert[T any](p *Parts, val T) {
	if p.ext == nil {
		p.ext = make(map[reflect.Type]extension)
	}
	p.ext[reflect.TypeFor[T]()] = extension{val: val, dup: copier[T]()}
}

// Lookup returns the extension value of type T, if present.
func Lookup[T any](p *Parts) (T, bool) {
	val, ok := p.ext[reflect.TypeFor[T]()].val.(T)
	return val, ok
}

// Remove deletes the extension value of type T and returns it, if present.
func Remove[T any](p *Parts) (T, bool) {
	key := reflect.TypeFor[T]()
	val, ok := p.ext[key].val.(T)
	if ok {
		delete(p.ext, key)
	}
	return val, ok
}

// Request is a Parts value plus a body that can be taken at most once.
type Request struct {
	Parts Parts

	body  []byte
	taken bool
	spent bool

	// decoding is set by a route for the duration of one dispatch only.
	decoding *decoding
}

// NewRequest returns a request that owns parts and body.
func NewRequest(parts Parts, body []byte) *Request {
	return &Request{Parts: parts, body: body}
}

// Len returns the size of the body without taking it. It returns 0 once
// the body has been taken.
func (r *Request) Len() int {
	if r.taken {
		return 0
	}
	return len(r.body)
}

// Taken reports whether the body has already been taken.
func (r *Request) Taken() bool { return r.taken }

// Take removes the body from the request. A second call fails with
// ErrBodyTaken.
func (r *Request) Take() ([]byte, error) {
	if r.taken {
		return nil, ErrBodyTaken
	}
	body := r.body
	r.body = nil
	r.taken = true
	return body, nil
}

// Clone returns an independent duplicate of r with its own copy of the
// body. It fails if the body was already taken, since there is nothing
// left to duplicate.
func (r *Request) Clone() (*Request, error) {
	if r.taken {
		return nil, fmt.Errorf("clone: %w", ErrBodyTaken)
	}
	return &Request{
		Parts: r.Parts.Clone(),
		body:  append([]byte(nil), r.body...),
	}, nil
}

// spend marks the request as dispatched.
func (r *Request) spend() error {
	if r.spent {
		return ErrRequestSpent
	}
	r.spent = true
	return nil
}

// decoderFor resolves a body decoder for the request's Content-Type with the
// decoders of the dispatching route.
func (r *Request) decoderFor(contentType string) (Decoder, bool) {
	if r.decoding == nil {
		return defaultCodecs.decoderFor(contentType)
	}
	return r.decoding.codecs.decoderFor(contentType)
}

// validator returns the dispatching route's body validator, if any.
func (r *Request) validator() Validator {
	if r.decoding == nil {
		return nil
	}
	return r.decoding.validator
}
