package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// jsonAPI mirrors encoding/json semantics (struct tags, errors on type
// mismatch) on top of json-iterator.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Encoder encodes values to a wire format.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder decodes request bodies from a wire format.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v any) error
}

// Codecs shipped with the package. Each implements both Encoder and Decoder.
var (
	JSONCodec = jsonCodec{}
	XMLCodec  = xmlCodec{}
	YAMLCodec = yamlCodec{}
)

// jsonCodec implements both Encoder and Decoder for JSON.
type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return jsonAPI.NewEncoder(w).Encode(v)
}

// Decode requires r to hold exactly one JSON value.
func (jsonCodec) Decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return io.ErrUnexpectedEOF
	}
	if bytes.Equal(data, []byte("null")) {
		return rejectNull(v)
	}
	return jsonAPI.Unmarshal(data, v)
}

// xmlCodec implements both Encoder and Decoder for XML.
type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

// Decode requires r to hold exactly one root element. Whitespace, comments
// and processing instructions may follow it.
func (xmlCodec) Decode(r io.Reader, v any) error {
	dec := xml.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(tok)) > 0 {
				return errTrailingData
			}
		default:
			return errTrailingData
		}
	}
}

// yamlCodec implements both Encoder and Decoder for YAML.
type yamlCodec struct{}

func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Decode requires r to hold exactly one YAML document.
func (yamlCodec) Decode(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	var next yaml.Node
	switch err := dec.Decode(&next); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return err
	default:
		return errTrailingData
	}

	if len(doc.Content) == 1 && doc.Content[0].Tag == "!!null" {
		return rejectNull(v)
	}
	return doc.Decode(v)
}

var errTrailingData = errors.New("unexpected data after the first value")

// rejectNull fails unless v points at something that can hold null.
func rejectNull(v any) error {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface) {
		return nil
	}
	return fmt.Errorf("null is not a valid %s", t)
}

// codecRegistry holds the decoders a route accepts for Body[T].
// Index 0 is always JSON (the default).
type codecRegistry struct {
	decoders []Decoder
}

var defaultCodecs = newCodecRegistry(nil)

// newCodecRegistry builds a registry with JSON, XML and YAML first, then
// any user-registered decoders.
func newCodecRegistry(userDecoders []Decoder) *codecRegistry {
	cr := &codecRegistry{
		decoders: make([]Decoder, 0, 3+len(userDecoders)),
	}
	cr.decoders = append(cr.decoders, JSONCodec, XMLCodec, YAMLCodec)
	cr.decoders = append(cr.decoders, userDecoders...)
	return cr
}

// decoderFor returns the decoder matching the given Content-Type.
// Returns (JSON decoder, true) for empty content type.
// Returns (nil, false) if the content type is present but unrecognized.
func (cr *codecRegistry) decoderFor(contentType string) (Decoder, bool) {
	if contentType == "" {
		return cr.decoders[0], true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	// Later registrations override the built-ins.
	for i := len(cr.decoders) - 1; i >= 0; i-- {
		if cr.decoders[i].ContentType() == mediaType {
			return cr.decoders[i], true
		}
	}
	return nil, false
}
