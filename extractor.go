package extract

import "reflect"

// FromParts is the non-consuming extraction capability. It is implemented
// on the pointer of an extractor type and fills the receiver from the
// shared parts and a duplicate of the state. It may claim a field of parts
// (leaving it empty for later extractors) but never sees the body.
type FromParts interface {
	FromParts(parts *Parts, state any) error
}

// FromRequest is the consuming extraction capability. It receives the whole
// request and may take its body. At most one FromRequest runs per dispatch,
// and always for the handler's last parameter.
type FromRequest interface {
	FromRequest(req *Request, state any) error
}

// Consuming adapts a non-consuming extractor to the consuming capability.
// The adapter extracts from the request's parts only and leaves the body
// untouched.
func Consuming(e FromParts) FromRequest {
	return partsBridge{e}
}

type partsBridge struct {
	FromParts
}

func (b partsBridge) FromRequest(req *Request, state any) error {
	return b.FromParts.FromParts(&req.Parts, state)
}

// Cloner is implemented by state types that hold references and must be
// deep-copied for each extraction.
type Cloner[S any] interface {
	Clone() S
}

// duplicate returns a copy of s that shares nothing mutable with it.
func duplicate[S any](s S) S {
	if c, ok := any(s).(Cloner[S]); ok {
		return c.Clone()
	}
	return s
}

// stateBound is implemented by extractors that require a specific state
// type, so the plan can reject a mismatch before any dispatch.
type stateBound interface {
	stateType() reflect.Type
}

var (
	fromPartsType   = reflect.TypeFor[FromParts]()
	fromRequestType = reflect.TypeFor[FromRequest]()
	stateBoundType  = reflect.TypeFor[stateBound]()
)
