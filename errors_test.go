package extract_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/extract"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := extract.Error(http.StatusNotFound, "not found")
	assert.EqualError(t, err, "not found")

	var sc extract.StatusCoder
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := extract.Errorf(http.StatusBadRequest, "invalid %s", "email")
	assert.EqualError(t, err, "invalid email")
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err    error
		expect int
	}{
		"with StatusCoder": {
			err:    extract.Error(http.StatusForbidden, "forbidden"),
			expect: http.StatusForbidden,
		},
		"without StatusCoder": {
			err:    errors.New("plain error"),
			expect: http.StatusInternalServerError,
		},
		"missing field": {
			err:    fmt.Errorf("%w: id", extract.ErrMissingField),
			expect: http.StatusBadRequest,
		},
		"decode": {
			err:    fmt.Errorf("%w: eof", extract.ErrDecode),
			expect: http.StatusBadRequest,
		},
		"decode with status": {
			err:    fmt.Errorf("%w: %w", extract.ErrDecode, extract.Error(http.StatusUnsupportedMediaType, "nope")),
			expect: http.StatusUnsupportedMediaType,
		},
		"body too large": {
			err:    extract.ErrBodyTooLarge,
			expect: http.StatusRequestEntityTooLarge,
		},
		"rate limited": {
			err:    extract.ErrRateLimited,
			expect: http.StatusTooManyRequests,
		},
		"misuse": {
			err:    extract.ErrBodyTaken,
			expect: http.StatusInternalServerError,
		},
		"extract error": {
			err:    &extract.ExtractError{Index: 1, Type: reflect.TypeFor[extract.Method](), Err: extract.ErrMissingField},
			expect: http.StatusBadRequest,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, extract.ErrorStatus(tc.err))
		})
	}
}

func TestExtractError(t *testing.T) {
	t.Parallel()

	err := &extract.ExtractError{Index: 2, Type: reflect.TypeFor[extract.Bytes](), Err: extract.ErrBodyTaken}
	assert.EqualError(t, err, "extract param 2 (extract.Bytes): misuse: body already taken")
	require.ErrorIs(t, err, extract.ErrMisuse)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
}

func TestHTTPError_fields(t *testing.T) {
	t.Parallel()

	err := extract.Error(http.StatusConflict, "conflict")

	var httpErr *extract.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "conflict", httpErr.Message)
}

func TestProblemDetail_Error(t *testing.T) {
	t.Parallel()

	assert.EqualError(t, &extract.ProblemDetail{Title: "Bad", Detail: "details"}, "details")
	assert.EqualError(t, &extract.ProblemDetail{Title: "Bad"}, "Bad")
}
