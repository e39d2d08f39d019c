package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps engine and repository errors to HTTP statuses.
// Validation messages are safe to show; anything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, ports.ErrItineraryNotFound):
		writeError(w, r, http.StatusNotFound, "itinerary not found")
	case errors.Is(err, services.ErrPositionOutOfRange), errors.Is(err, services.ErrDayOutOfRange):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrLastDestination), errors.Is(err, services.ErrStaleTicket):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &ve) && !errors.Is(err, services.ErrInvariantViolated):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// pathInt reads an integer path wildcard, writing a 400 when it is malformed.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return v, true
}
