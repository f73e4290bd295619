package extract

import (
	"reflect"
	"strings"
)

// nameTags are the struct tags consulted, in order, for a field's wire name.
var nameTags = []string{"json", "yaml", "xml"}

// fieldName returns the wire name of a struct field as used in validation
// errors. It returns "-" for fields excluded from every codec.
func fieldName(f reflect.StructField) string {
	for _, tag := range nameTags {
		val, ok := f.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _ := tagOptions(val)
		if name != "" {
			return name
		}
	}
	return f.Name
}

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}
