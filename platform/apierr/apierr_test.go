package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, HTTPStatusFor(New(Forbidden, "nope")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusFor(New(OverlappingShift, "nope")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFor(errors.New("unanticipated")))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("db exploded")
	wrapped := Wrap(Internal, "save failed", cause)

	assert.True(t, errors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "db exploded")

	var target *Error
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, Internal, target.Code)
}

func TestIs(t *testing.T) {
	err := New(Conflict, "retry exhausted")
	assert.True(t, Is(err, Conflict))
	assert.False(t, Is(err, NotFound))
	assert.False(t, Is(errors.New("plain"), Conflict))
}
