package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{BadRequest("bad input"), http.StatusBadRequest},
		{Unauthorized("who are you"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("already there"), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	inner := NotFound("request %s not found", "abc")
	wrapped := fmt.Errorf("loading request: %w", inner)
	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("got kind %v, want not found", got)
	}

	rewrapped := Wrap(KindConflict, inner, "state clash")
	if got := KindOf(rewrapped); got != KindConflict {
		t.Errorf("outer kind should win, got %v", got)
	}
	if !errors.Is(rewrapped, inner) {
		t.Error("wrapped error lost its cause")
	}
}

func TestErrorMessages(t *testing.T) {
	err := Conflict("approval for level %s already exists", "DATA_STEWARD")
	if err.Error() != "approval for level DATA_STEWARD already exists" {
		t.Errorf("got %q", err.Error())
	}

	wrapped := Wrap(KindBadRequest, errors.New("eof"), "decode payload")
	if wrapped.Error() != "decode payload: eof" {
		t.Errorf("got %q", wrapped.Error())
	}
}
