package handlers

import (
	"net/http"
	"strings"
	"time"
	"trip-itinerary-service/internal/adapters/calendar"
	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/services"
)

const dateLayout = "2006-01-02"

// ItineraryHandler exposes the editing session over HTTP. Every route names
// an itinerary; touching a different one than the open one navigates to it.
type ItineraryHandler struct {
	Service *services.ItineraryService
	Now     func() time.Time
}

func (h *ItineraryHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Repo.ListItineraries(r.Context())
	if err != nil {
		writeServiceError(w, r, "list itineraries", err)
		return
	}

	res := dto.ListItinerariesResponse{Itineraries: make([]dto.ItinerarySummaryResponse, 0, len(list))}
	for _, s := range list {
		res.Itineraries = append(res.Itineraries, dto.ItinerarySummaryResponse{
			ID:               s.ID,
			Title:            s.Title,
			DestinationCount: s.DestinationCount,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItineraryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := h.now()
	if strings.TrimSpace(req.StartDate) != "" {
		var err error
		start, err = time.Parse(dateLayout, req.StartDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
	}

	snap, err := h.Service.Create(r.Context(), req.Title, start, req.FirstDestination)
	if err != nil {
		writeServiceError(w, r, "create itinerary", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, itineraryResponse(snap))
}

func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Ensure(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get itinerary", err)
		return
	}

	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

func (h *ItineraryHandler) Save(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Ensure(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "save itinerary", err)
		return
	}

	saved, err := h.Service.SaveSnapshot(r.Context(), snap)
	if err != nil {
		writeServiceError(w, r, "save itinerary", err)
		return
	}

	// Respond with the stored form, aggregates included.
	snap, err = services.NewSnapshot(saved)
	if err != nil {
		writeServiceError(w, r, "save itinerary", err)
		return
	}

	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

func (h *ItineraryHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Ensure(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "export calendar", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := calendar.EncodeICS(w, snap, h.now()); err != nil {
		writeServiceError(w, r, "export calendar", err)
		return
	}
}

func itineraryResponse(snap *services.Snapshot) dto.ItineraryResponse {
	dests := snap.Destinations()
	res := dto.ItineraryResponse{
		ID:           snap.ItineraryID(),
		Title:        snap.Title(),
		StartDate:    snap.StartDate().Format(dateLayout),
		TotalDays:    snap.TotalDays(),
		Destinations: make([]dto.DestinationResponse, 0, len(dests)),
	}

	for _, d := range dests {
		start, end, _ := snap.DestinationDayRange(d.Position)
		res.Destinations = append(res.Destinations, dto.DestinationResponse{
			ID:                d.ID,
			Position:          d.Position,
			Name:              d.Name,
			Nights:            d.Nights,
			FirstDay:          start,
			EndDay:            end,
			AutoSightseeing:   nonNil(d.AutoSightseeing),
			ManualSightseeing: nonNil(d.ManualSightseeing),
			LodgingName:       d.LodgingName,
			LodgingIsManual:   d.LodgingIsManual,
			DiningAggregate:   nonNil(d.DiningAggregate),
			TransportToNext:   d.TransportToNext,
			Notes:             d.Notes,
		})
	}

	return res
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
