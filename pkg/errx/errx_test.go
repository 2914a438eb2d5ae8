package errx_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRegistry = errx.NewRegistry("widget")
	codeMissing  = testRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Widget not found")
	codeBusy     = testRegistry.Register("BUSY", errx.TypeConflict, http.StatusConflict, "Widget is busy")
)

func TestRegistry_New(t *testing.T) {
	err := testRegistry.New(codeMissing).WithDetail("widget_id", "w-1")

	assert.Equal(t, "WIDGET_NOT_FOUND", err.Code)
	assert.Equal(t, errx.TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "w-1", err.Details["widget_id"])
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := errx.NewRegistry("dup")
	r.Register("X", errx.TypeInternal, http.StatusInternalServerError, "x")

	assert.Panics(t, func() {
		r.Register("X", errx.TypeInternal, http.StatusInternalServerError, "x")
	})
}

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", testRegistry.New(codeBusy))

	assert.True(t, errors.Is(wrapped, testRegistry.New(codeBusy)))
	assert.False(t, errors.Is(wrapped, testRegistry.New(codeMissing)))
	assert.True(t, errx.IsCode(wrapped, codeBusy))
	assert.True(t, errx.IsType(wrapped, errx.TypeConflict))
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")

	err := errx.Wrap(cause, "failed to reach storage", errx.TypeExternal)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)

	registered := testRegistry.New(codeMissing)
	assert.Same(t, registered, errx.Wrap(registered, "ignored", errx.TypeInternal))
	assert.Nil(t, errx.Wrap(nil, "nothing", errx.TypeInternal))
}

func TestError_ToHTTPResponse(t *testing.T) {
	resp := testRegistry.New(codeBusy).WithDetails(map[string]any{"retryable": true}).ToHTTPResponse()

	assert.Equal(t, "Conflict", resp.Error)
	assert.Equal(t, "WIDGET_BUSY", resp.Code)
	assert.Equal(t, true, resp.Details["retryable"])
}
