package extract

// SelfValidator is implemented by decoded body types that validate themselves.
type SelfValidator interface {
	Validate() error
}

// Validator validates any decoded body. Set it per route with WithValidator.
type Validator interface {
	Validate(v any) error
}
