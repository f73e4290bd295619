package extract

import (
	"fmt"
	"reflect"
)

var (
	responseType = reflect.TypeFor[Response]()
	errorType    = reflect.TypeFor[error]()
)

// slot is one handler parameter in the extraction plan.
type slot struct {
	typ reflect.Type
	// consuming is true when the type implements FromRequest directly.
	// Otherwise it implements FromParts and, in the last position, goes
	// through the bridge.
	consuming bool
}

// consumer returns the consuming capability of ptr, a pointer to a value of
// the slot's type: the type's own FromRequest, or FromParts through the bridge.
func (s slot) consumer(ptr any) FromRequest {
	if s.consuming {
		return ptr.(FromRequest) //nolint:forcetypeassert // checked by newPlan
	}
	return Consuming(ptr.(FromParts)) //nolint:forcetypeassert // checked by newPlan
}

// plan is the extraction plan of a handler, built once from its signature.
type plan struct {
	fn      reflect.Value
	slots   []slot
	withErr bool
	params  []string
}

// newPlan inspects handler and verifies that it can be dispatched with a
// state of type S. All checks happen here so that dispatch never fails for
// reasons fixed by the handler's signature.
func newPlan[S any](handler any) (*plan, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", ErrMisuse)
	}

	fn := reflect.ValueOf(handler)
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: handler is %s, not a func", ErrMisuse, ft)
	}
	if fn.IsNil() {
		return nil, fmt.Errorf("%w: handler is nil", ErrMisuse)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: handler %s is variadic", ErrMisuse, ft)
	}

	p := &plan{fn: fn}

	switch {
	case ft.NumOut() == 1 && ft.Out(0) == responseType:
	case ft.NumOut() == 2 && ft.Out(0) == responseType && ft.Out(1) == errorType:
		p.withErr = true
	default:
		return nil, fmt.Errorf("%w: handler %s must return Response or (Response, error)", ErrMisuse, ft)
	}

	stateType := reflect.TypeFor[S]()
	last := ft.NumIn() - 1

	for i := range ft.NumIn() {
		t := ft.In(i)
		ptr := reflect.PointerTo(t)

		parts := ptr.Implements(fromPartsType)
		consuming := ptr.Implements(fromRequestType)

		switch {
		case parts && consuming:
			return nil, fmt.Errorf("param %d (%s): %w", i, t, ErrAmbiguousExtractor)
		case !parts && !consuming:
			return nil, fmt.Errorf("%w: param %d (%s) is not an extractor", ErrMisuse, i, t)
		case consuming && i != last:
			return nil, fmt.Errorf("%w: param %d (%s) consumes the request and must be last", ErrMisuse, i, t)
		}

		if ptr.Implements(stateBoundType) {
			want := reflect.New(t).Interface().(stateBound).stateType() //nolint:forcetypeassert // checked above
			if !stateType.AssignableTo(want) {
				return nil, fmt.Errorf("param %d (%s): %w: route state is %s", i, t, ErrStateType, stateType)
			}
		}

		if ptr.Implements(paramNamerType) {
			p.params = append(p.params, reflect.New(t).Interface().(paramNamer).paramName()) //nolint:forcetypeassert // checked above
		}

		p.slots = append(p.slots, slot{typ: t, consuming: consuming})
	}

	return p, nil
}

var paramNamerType = reflect.TypeFor[paramNamer]()

// dispatch extracts every parameter in declared order and calls the
// handler once. All parameters but the last are extracted from the live
// parts; the last one receives the request itself. Each extraction gets its
// own duplicate of state. The handler is not called if any extraction fails.
func dispatch[S any](p *plan, req *Request, state S) (Response, error) {
	n := len(p.slots)
	if n == 0 {
		return p.call(nil)
	}

	if req == nil {
		return Response{}, fmt.Errorf("%w: nil request", ErrMisuse)
	}
	if err := req.spend(); err != nil {
		return Response{}, err
	}

	args := make([]reflect.Value, n)
	last := n - 1

	for i, s := range p.slots[:last] {
		v := reflect.New(s.typ)
		e := v.Interface().(FromParts) //nolint:forcetypeassert // checked by newPlan
		if err := e.FromParts(&req.Parts, duplicate(state)); err != nil {
			return Response{}, &ExtractError{Index: i, Type: s.typ, Err: err}
		}
		args[i] = v.Elem()
	}

	s := p.slots[last]
	v := reflect.New(s.typ)
	if err := s.consumer(v.Interface()).FromRequest(req, duplicate(state)); err != nil {
		return Response{}, &ExtractError{Index: last, Type: s.typ, Err: err}
	}
	args[last] = v.Elem()

	return p.call(args)
}

// call invokes the handler with the extracted arguments.
func (p *plan) call(args []reflect.Value) (Response, error) {
	out := p.fn.Call(args)
	resp := out[0].Interface().(Response) //nolint:forcetypeassert // checked by newPlan
	if !p.withErr || out[1].IsNil() {
		return resp, nil
	}
	return resp, out[1].Interface().(error) //nolint:forcetypeassert // checked by newPlan
}
