package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"
)

func TestWriteServiceErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("open: %w", ports.ErrItineraryNotFound), http.StatusNotFound},
		{"position", &services.ValidationError{Op: "x", Reason: services.ErrPositionOutOfRange}, http.StatusNotFound},
		{"day", &services.ValidationError{Op: "x", Reason: services.ErrDayOutOfRange}, http.StatusNotFound},
		{"last", &services.ValidationError{Op: "x", Reason: services.ErrLastDestination}, http.StatusConflict},
		{"other itinerary open", fmt.Errorf("apply to %q: %w", "a", services.ErrStaleTicket), http.StatusConflict},
		{"negative", &services.ValidationError{Op: "x", Reason: services.ErrNegativeNights}, http.StatusBadRequest},
		{"invariant", &services.ValidationError{Op: "x", Reason: services.ErrInvariantViolated}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		writeServiceError(w, r, "test", c.err)

		if w.Code != c.want {
			t.Fatalf("%s: status = %d, want %d", c.name, w.Code, c.want)
		}
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	writeServiceError(w, r, "test", errors.New("password=hunter2"))

	if strings.Contains(w.Body.String(), "hunter2") {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{`{"name":"Rome"}`, true, "Rome"},
		{`{"name":"Rome"}{"name":"Venice"}`, false, ""},
		{`{"city":"Rome"}`, false, ""},
		{`not json`, false, ""},
	}

	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.in))
		w := httptest.NewRecorder()

		var got body
		ok := decodeJSON(w, r, &got)
		if ok != c.ok {
			t.Fatalf("%s: ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && got.Name != c.want {
			t.Fatalf("%s: name = %q, want %q", c.in, got.Name, c.want)
		}
		if !ok && w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", c.in, w.Code)
		}
	}
}
