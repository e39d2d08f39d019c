package handlers

import (
	"net/http"
)

// Health reports liveness and whether an itinerary is currently open.
func (h *ItineraryHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"status": "ok", "itinerary_open": h.Service.Editor.Snapshot() != nil}
	writeJSON(w, r, http.StatusOK, res)
}
