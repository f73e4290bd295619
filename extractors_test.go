package extract_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/extract"
)

type itemID struct{}

func (itemID) ParamName() string { return "id" }

func sampleParts() extract.Parts {
	p := extract.Parts{
		Method: http.MethodPut,
		Path:   "/items/7",
		ID:     "req-1",
		Remote: "10.0.0.1",
		Header: http.Header{"Content-Type": {"application/json"}},
		Query:  url.Values{"dry": {"true"}},
		Params: map[string]string{"id": "7"},
	}
	extract.Insert(&p, tenant("acme"))
	return p
}

func TestFromParts_projections(t *testing.T) {
	t.Parallel()

	parts := sampleParts()

	var m extract.Method
	require.NoError(t, m.FromParts(&parts, nil))
	assert.Equal(t, extract.Method(http.MethodPut), m)

	var p extract.Path
	require.NoError(t, p.FromParts(&parts, nil))
	assert.Equal(t, extract.Path("/items/7"), p)

	var id extract.ID
	require.NoError(t, id.FromParts(&parts, nil))
	assert.Equal(t, extract.ID("req-1"), id)

	var remote extract.Remote
	require.NoError(t, remote.FromParts(&parts, nil))
	assert.Equal(t, extract.Remote("10.0.0.1"), remote)

	var h extract.Header
	require.NoError(t, h.FromParts(&parts, nil))
	assert.Equal(t, "application/json", h.Get("Content-Type"))

	var q extract.Query
	require.NoError(t, q.FromParts(&parts, nil))
	assert.Equal(t, "true", q.Get("dry"))

	var params extract.Params
	require.NoError(t, params.FromParts(&parts, nil))
	assert.Equal(t, extract.Params{"id": "7"}, params)

	var param extract.Param[itemID]
	require.NoError(t, param.FromParts(&parts, nil))
	assert.Equal(t, "7", param.Value)
}

func TestFromParts_copies_do_not_alias(t *testing.T) {
	t.Parallel()

	parts := sampleParts()

	var h extract.Header
	require.NoError(t, h.FromParts(&parts, nil))
	h["Content-Type"][0] = "text/plain"

	var q extract.Query
	require.NoError(t, q.FromParts(&parts, nil))
	q["dry"][0] = "false"

	var params extract.Params
	require.NoError(t, params.FromParts(&parts, nil))
	params["id"] = "8"

	assert.Equal(t, "application/json", parts.Header.Get("Content-Type"))
	assert.Equal(t, "true", parts.Query.Get("dry"))
	assert.Equal(t, "7", parts.Params["id"])
}

func TestFromParts_empty_parts(t *testing.T) {
	t.Parallel()

	var parts extract.Parts

	var h extract.Header
	require.NoError(t, h.FromParts(&parts, nil))
	assert.NotNil(t, h)

	var params extract.Params
	require.NoError(t, params.FromParts(&parts, nil))
	assert.NotNil(t, params)

	var param extract.Param[itemID]
	err := param.FromParts(&parts, nil)
	require.ErrorIs(t, err, extract.ErrMissingField)
	assert.Contains(t, err.Error(), `"id"`)

	var ext extract.Ext[tenant]
	require.ErrorIs(t, ext.FromParts(&parts, nil), extract.ErrMissingField)
}

func TestFromParts_idempotent(t *testing.T) {
	t.Parallel()

	parts := sampleParts()

	tests := map[string]func(p *extract.Parts) (any, error){
		"method": func(p *extract.Parts) (any, error) {
			var v extract.Method
			err := v.FromParts(p, nil)
			return v, err
		},
		"header": func(p *extract.Parts) (any, error) {
			var v extract.Header
			err := v.FromParts(p, nil)
			return v, err
		},
		"param": func(p *extract.Parts) (any, error) {
			var v extract.Param[itemID]
			err := v.FromParts(p, nil)
			return v, err
		},
		"ext": func(p *extract.Parts) (any, error) {
			var v extract.Ext[tenant]
			err := v.FromParts(p, nil)
			return v, err
		},
		"state": func(p *extract.Parts) (any, error) {
			var v extract.State[int]
			err := v.FromParts(p, 42)
			return v, err
		},
	}

	for name, extractFn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, b := parts.Clone(), parts.Clone()
			first, err := extractFn(&a)
			require.NoError(t, err)
			second, err := extractFn(&b)
			require.NoError(t, err)
			assert.Equal(t, first, second)

			// Peeking extractors are also repeatable on the same parts.
			third, err := extractFn(&a)
			require.NoError(t, err)
			assert.Equal(t, first, third)
		})
	}
}

func TestTake_claims_field(t *testing.T) {
	t.Parallel()

	parts := sampleParts()

	var first extract.Take[tenant]
	require.NoError(t, first.FromParts(&parts, nil))
	assert.Equal(t, tenant("acme"), first.Value)

	var second extract.Take[tenant]
	require.ErrorIs(t, second.FromParts(&parts, nil), extract.ErrMissingField)

	var peek extract.Ext[tenant]
	require.ErrorIs(t, peek.FromParts(&parts, nil), extract.ErrMissingField)
}

func TestState_type_mismatch(t *testing.T) {
	t.Parallel()

	var s extract.State[string]
	err := s.FromParts(&extract.Parts{}, 42)
	require.ErrorIs(t, err, extract.ErrStateType)
	assert.ErrorIs(t, err, extract.ErrMisuse)
}

func TestBytes_and_Text_take_body(t *testing.T) {
	t.Parallel()

	req := extract.NewRequest(extract.Parts{}, []byte("raw"))
	var b extract.Bytes
	require.NoError(t, b.FromRequest(req, nil))
	assert.Equal(t, extract.Bytes("raw"), b)

	var s extract.Text
	require.ErrorIs(t, s.FromRequest(req, nil), extract.ErrBodyTaken)

	req = extract.NewRequest(extract.Parts{}, []byte("text"))
	require.NoError(t, s.FromRequest(req, nil))
	assert.Equal(t, extract.Text("text"), s)
}

func TestConsuming_bridge_leaves_body(t *testing.T) {
	t.Parallel()

	req := extract.NewRequest(sampleParts(), []byte("untouched"))

	var m extract.Method
	require.NoError(t, extract.Consuming(&m).FromRequest(req, nil))
	assert.Equal(t, extract.Method(http.MethodPut), m)
	assert.False(t, req.Taken())
	assert.Equal(t, len("untouched"), req.Len())

	var take extract.Take[tenant]
	require.NoError(t, extract.Consuming(&take).FromRequest(req, nil))
	_, ok := extract.Lookup[tenant](&req.Parts)
	assert.False(t, ok, "the bridge extracts from the request's own parts")
}
