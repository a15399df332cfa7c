package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
		msg    string
	}{
		{"not found", NotFound("board"), http.StatusNotFound, ErrCodeNotFound, "board not found"},
		{"bad request", BadRequest("email already registered"), http.StatusBadRequest, ErrCodeBadRequest, "email already registered"},
		{"unauthorized", Unauthorized("invalid credentials"), http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials"},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, ErrCodeForbidden, "nope"},
		{"conflict", Conflict("dup"), http.StatusConflict, ErrCodeConflict, "dup"},
		{"validation", ValidationError("name", "is required"), http.StatusBadRequest, ErrCodeValidationError, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.msg, tt.err.Message)
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	wrapped := Wrap(BadRequest("bad"), "create column")
	assert.Equal(t, http.StatusBadRequest, wrapped.HTTPStatus)
	assert.Equal(t, "create column: bad", wrapped.Message)

	notFound := Wrap(fmt.Errorf("column x: %w", ErrNotFound), "column not found")
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.True(t, IsNotFound(notFound))

	internal := Wrap(errors.New("disk on fire"), "save task")
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.True(t, errors.Is(internal, internal.Err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.True(t, IsNotFound(NotFound("task")))
	assert.False(t, IsNotFound(BadRequest("x")))

	assert.True(t, IsBadRequest(ValidationError("title", "is required")))
	assert.True(t, IsBadRequest(fmt.Errorf("outer: %w", BadRequest("x"))))
	assert.False(t, IsBadRequest(errors.New("plain")))

	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "task not found", PublicMessage(NotFound("task")))
	assert.Equal(t, "internal server error", PublicMessage(InternalError("db exploded", errors.New("boom"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))
}
