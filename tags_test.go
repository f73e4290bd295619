package extract_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/extract"
)

func TestFieldName(t *testing.T) {
	t.Parallel()

	type sample struct {
		JSON     string `json:"json_name,omitempty"`
		YAML     string `yaml:"yaml_name"`
		XML      string `xml:"xml_name,attr"`
		Both     string `json:"from_json" yaml:"from_yaml"`
		EmptyTag string `json:",omitempty" yaml:"fallback"`
		Skipped  string `json:"-"`
		Plain    string
	}

	typ := reflect.TypeFor[sample]()

	tests := map[string]string{
		"JSON":     "json_name",
		"YAML":     "yaml_name",
		"XML":      "xml_name",
		"Both":     "from_json",
		"EmptyTag": "fallback",
		"Skipped":  "-",
		"Plain":    "Plain",
	}

	for field, want := range tests {
		t.Run(field, func(t *testing.T) {
			t.Parallel()

			f, ok := typ.FieldByName(field)
			assert.True(t, ok)
			assert.Equal(t, want, extract.FieldName(f))
		})
	}
}

func TestTagOptions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		tag      string
		wantName string
		wantOpts string
	}{
		"name only":     {tag: "name", wantName: "name"},
		"name and opts": {tag: "name,omitempty", wantName: "name", wantOpts: "omitempty"},
		"opts only":     {tag: ",omitempty", wantOpts: "omitempty"},
		"multiple opts": {tag: "n,omitempty,string", wantName: "n", wantOpts: "omitempty,string"},
		"empty":         {tag: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gotName, gotOpts := extract.TagOptions(tc.tag)
			assert.Equal(t, tc.wantName, gotName)
			assert.Equal(t, tc.wantOpts, gotOpts)
		})
	}
}
