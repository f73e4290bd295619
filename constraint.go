package extract

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// rule is one constraint tag checked on the fields of a decoded body.
// check returns the violation message, or "" when the value passes.
type rule struct {
	tag     string
	applies func(reflect.Kind) bool
	check   func(fv reflect.Value, arg string) string
}

func isString(k reflect.Kind) bool { return k == reflect.String }

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

func isNumber(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func anyKind(reflect.Kind) bool { return true }

// rules run in this order for every field.
var rules = []rule{
	{"required", anyKind, func(fv reflect.Value, arg string) string {
		if arg == "true" && fv.IsZero() {
			return "is required"
		}
		return ""
	}},
	{"minLength", isString, lengthBound(func(n, limit int) bool { return n < limit }, "must be at least %d characters")},
	{"maxLength", isString, lengthBound(func(n, limit int) bool { return n > limit }, "must be at most %d characters")},
	{"pattern", isString, func(fv reflect.Value, arg string) string {
		re, ok := compilePattern(arg)
		if ok && !re.MatchString(fv.String()) {
			return "must match pattern " + arg
		}
		return ""
	}},
	{"enum", isString, func(fv reflect.Value, arg string) string {
		if !slices.Contains(strings.Split(arg, ","), fv.String()) {
			return "must be one of [" + arg + "]"
		}
		return ""
	}},
	{"minimum", isNumber, numberBound(func(v, limit float64) bool { return v < limit }, "must be at least %s")},
	{"maximum", isNumber, numberBound(func(v, limit float64) bool { return v > limit }, "must be at most %s")},
	{"minItems", isCollection, lengthBound(func(n, limit int) bool { return n < limit }, "must have at least %d items")},
	{"maxItems", isCollection, lengthBound(func(n, limit int) bool { return n > limit }, "must have at most %d items")},
}

// lengthBound checks fv.Len() against an integer tag argument.
func lengthBound(fails func(n, limit int) bool, format string) func(reflect.Value, string) string {
	return func(fv reflect.Value, arg string) string {
		limit, err := strconv.Atoi(arg)
		if err != nil || !fails(fv.Len(), limit) {
			return ""
		}
		return fmt.Sprintf(format, limit)
	}
}

// numberBound checks a numeric field against a float tag argument.
func numberBound(fails func(v, limit float64) bool, format string) func(reflect.Value, string) string {
	return func(fv reflect.Value, arg string) string {
		limit, err := strconv.ParseFloat(arg, 64)
		if err != nil || !fails(asFloat(fv), limit) {
			return ""
		}
		return fmt.Sprintf(format, arg)
	}
}

func asFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

var patterns sync.Map // string -> *regexp.Regexp, nil for invalid patterns

// compilePattern compiles a pattern tag once. Invalid patterns are ignored.
func compilePattern(expr string) (*regexp.Regexp, bool) {
	if v, ok := patterns.Load(expr); ok {
		re := v.(*regexp.Regexp) //nolint:forcetypeassert // only *regexp.Regexp is stored
		return re, re != nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	patterns.Store(expr, re)
	return re, re != nil
}

// validateConstraints checks the constraint tags of a decoded struct and
// reports every violation in one ProblemDetail.
func validateConstraints(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var violations []ValidationError
	walkConstraints(rv, "", &violations)
	if len(violations) == 0 {
		return nil
	}

	return &ProblemDetail{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: fmt.Sprintf("%d constraint violation(s)", len(violations)),
		Errors: violations,
	}
}

func walkConstraints(rv reflect.Value, prefix string, out *[]ValidationError) {
	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		fv := rv.Field(i)
		for _, r := range rules {
			arg, ok := f.Tag.Lookup(r.tag)
			if !ok || !r.applies(fv.Kind()) {
				continue
			}
			if msg := r.check(fv, arg); msg != "" {
				*out = append(*out, ValidationError{Field: name, Message: msg, Value: violationValue(fv)})
			}
		}

		nested := fv
		if nested.Kind() == reflect.Pointer && !nested.IsNil() {
			nested = nested.Elem()
		}
		if nested.Kind() == reflect.Struct {
			walkConstraints(nested, name, out)
		}
	}
}

// violationValue is the value echoed back in a ValidationError: the length
// of a collection, the number as float64, the string itself, nothing else.
func violationValue(fv reflect.Value) any {
	switch k := fv.Kind(); {
	case isCollection(k):
		return fv.Len()
	case isNumber(k):
		return asFloat(fv)
	case k == reflect.String:
		return fv.String()
	default:
		return nil
	}
}
