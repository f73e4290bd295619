package extract

import (
	"bytes"
	"fmt"
	"net/http"
)

// JSON decodes the request body as JSON into T.
type JSON[T any] struct {
	Value T
}

func (j *JSON[T]) FromRequest(req *Request, _ any) error {
	return decodeBody(req, JSONCodec, &j.Value)
}

// YAML decodes the request body as YAML into T.
type YAML[T any] struct {
	Value T
}

func (y *YAML[T]) FromRequest(req *Request, _ any) error {
	return decodeBody(req, YAMLCodec, &y.Value)
}

// XML decodes the request body as XML into T.
type XML[T any] struct {
	Value T
}

func (x *XML[T]) FromRequest(req *Request, _ any) error {
	return decodeBody(req, XMLCodec, &x.Value)
}

// Body decodes the request body into T with the decoder registered for the
// request's Content-Type. An empty Content-Type means JSON.
type Body[T any] struct {
	Value T
}

func (b *Body[T]) FromRequest(req *Request, _ any) error {
	ct := req.Parts.Header.Get("Content-Type")
	dec, ok := req.decoderFor(ct)
	if !ok {
		return fmt.Errorf("%w: %w", ErrDecode,
			Errorf(http.StatusUnsupportedMediaType, "unsupported content type %q", ct))
	}
	return decodeBody(req, dec, &b.Value)
}

// decodeBody takes the body, decodes it into target and validates the result.
func decodeBody(req *Request, dec Decoder, target any) error {
	body, err := req.Take()
	if err != nil {
		return err
	}

	if err := dec.Decode(bytes.NewReader(body), target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, dec.ContentType(), err)
	}

	if err := validateConstraints(target); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if sv, ok := target.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}

	if v := req.validator(); v != nil {
		if err := v.Validate(target); err != nil {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}

	return nil
}
