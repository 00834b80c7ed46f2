package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_TypeChecks(t *testing.T) {
	cause := stderrors.New("permission denied")

	tests := []struct {
		name   string
		err    error
		check  func(error) bool
		status int
	}{
		{name: "not found", err: NewNotFoundError("article"), check: IsNotFound, status: http.StatusNotFound},
		{name: "validation", err: NewValidationError("slug is required"), check: IsValidation, status: http.StatusBadRequest},
		{name: "parse", err: NewParseError("a.md", cause), check: IsParse, status: http.StatusUnprocessableEntity},
		{name: "io", err: NewIOError("articles", cause), check: IsIO, status: http.StatusInternalServerError},
		{name: "wrapped with fmt", err: fmt.Errorf("load: %w", NewNotFoundError("artifact")), check: IsNotFound, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			appErr := GetAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	original := NewNotFoundError("article")
	wrapped := Wrap(original, "lookup")
	assert.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "lookup: article not found")
	assert.Equal(t, "article not found", original.Message)

	plain := Wrap(stderrors.New("boom"), "compile")
	assert.True(t, IsType(plain, ErrorTypeInternal))
	assert.ErrorContains(t, plain, "boom")
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/articles/missing", nil), NewNotFoundError("article"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"NOT_FOUND"`)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/", nil), stderrors.New("secret detail"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestErrorHandler_MiddlewareRecoversPanics(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaboom")
}
