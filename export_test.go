package extract

// Test-only exports for internal functions.
var (
	ValidateConstraints = validateConstraints
	FieldName           = fieldName
	TagOptions          = tagOptions
)

// DecoderFor resolves a decoder the way Body[T] does for a route built
// with the given extra decoders.
func DecoderFor(contentType string, decoders ...Decoder) (Decoder, bool) {
	return newCodecRegistry(decoders).decoderFor(contentType)
}
