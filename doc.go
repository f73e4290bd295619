// Package extract binds handler arguments from a request and a shared
// state. A handler declares what it needs through its parameter types and
// the package assembles those values, in order, before calling it:
//
//	func greet(s extract.State[int], m extract.Method, body extract.JSON[Greeting]) extract.Response
//
// Every parameter type is an extractor. Extractors come in two kinds:
//
//   - FromParts extractors read (or claim) a field of the request's shared
//     Parts. They never see the body and can appear in any position.
//   - FromRequest extractors receive the whole request and may take its
//     body. At most one runs per dispatch, and only for the last parameter.
//
// A FromParts extractor in the last position is adapted to FromRequest
// automatically (see Consuming), so the last slot is always the consuming
// one and the body is reachable by exactly one extractor.
//
// Handlers are packaged once into a Route, which checks the signature and
// builds the extraction plan up front:
//
//	rt, err := extract.New[int](greet)
//	resp, err := rt.Dispatch(extract.NewRequest(parts, body), 42)
//
// Extraction failures are returned as errors and the handler is not called.
// Signature mistakes (a consuming extractor before the last slot, a type
// that is not an extractor, a State[T] that does not match the route) are
// reported by New and wrap ErrMisuse.
//
// Middleware uses the func(next Dispatcher[S]) Dispatcher[S] signature.
// Handler adapts a route to net/http.
package extract
