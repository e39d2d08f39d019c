package api

import (
	"net/http"
	"trip-itinerary-service/internal/api/handlers"
	"trip-itinerary-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc *services.ItineraryService) http.Handler {
	mux := http.NewServeMux()

	h := &handlers.ItineraryHandler{Service: svc}

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /itineraries", h.List)
	mux.HandleFunc("POST /itineraries", h.Create)
	mux.HandleFunc("GET /itineraries/{id}", h.Get)
	mux.HandleFunc("POST /itineraries/{id}/save", h.Save)
	mux.HandleFunc("GET /itineraries/{id}/calendar.ics", h.Calendar)

	mux.HandleFunc("GET /itineraries/{id}/days", h.ListDays)
	mux.HandleFunc("GET /itineraries/{id}/days/{day}/{kind}", h.GetOverlay)
	mux.HandleFunc("PUT /itineraries/{id}/days/{day}/{kind}", h.SetOverlay)
	mux.HandleFunc("DELETE /itineraries/{id}/days/{day}/{kind}", h.ClearOverlay)

	mux.HandleFunc("POST /itineraries/{id}/destinations", h.AddDestination)
	mux.HandleFunc("PATCH /itineraries/{id}/destinations/{pos}", h.UpdateDestination)
	mux.HandleFunc("DELETE /itineraries/{id}/destinations/{pos}", h.DeleteDestination)
	mux.HandleFunc("PUT /itineraries/{id}/destinations/{pos}/nights", h.ChangeNights)
	mux.HandleFunc("PUT /itineraries/{id}/destinations/{pos}/lodging", h.SetLodging)
	mux.HandleFunc("POST /itineraries/{id}/destinations/{pos}/move", h.MoveDestination)
	mux.HandleFunc("GET /itineraries/{id}/destinations/{pos}/range", h.DayRange)

	return loggingMiddleware(mux)
}
