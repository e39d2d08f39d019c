package handlers

import (
	"net/http"
	"strings"
	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/services"
)

// Add inserts a destination at the requested position, or appends it.
func (h *ItineraryHandler) AddDestination(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.Ensure(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "add destination", err)
		return
	}

	var req dto.AddDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	skeleton := domain.NewDestination(strings.TrimSpace(req.Name))
	if req.Nights != nil {
		skeleton.Nights = *req.Nights
	}

	var (
		snap *services.Snapshot
		err  error
	)
	if req.Position != nil {
		snap, err = h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
			return s.InsertDestination(*req.Position, skeleton)
		})
	} else {
		snap, err = h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
			return s.AppendDestination(skeleton)
		})
	}
	if err != nil {
		writeServiceError(w, r, "add destination", err)
		return
	}

	h.Service.Edited(r.Context())
	writeJSON(w, r, http.StatusCreated, itineraryResponse(snap))
}

func (h *ItineraryHandler) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := h.openAt(w, r, "update destination")
	if !ok {
		return
	}

	var req dto.UpdateDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	edit := services.DestinationEdit{
		Name:            req.Name,
		TransportToNext: req.TransportToNext,
		Notes:           req.Notes,
	}
	if req.AutoSightseeing != nil {
		edit.AutoSightseeing, edit.SetAutoSightseeing = *req.AutoSightseeing, true
	}
	if req.ManualSightseeing != nil {
		edit.ManualSightseeing, edit.SetManualSightseeing = *req.ManualSightseeing, true
	}
	if req.DiningAggregate != nil {
		edit.DiningAggregate, edit.SetDiningAggregate = *req.DiningAggregate, true
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.UpdateDestination(pos, edit)
	})
	if err != nil {
		writeServiceError(w, r, "update destination", err)
		return
	}

	if req.Name != nil {
		h.Service.Edited(r.Context())
	}
	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

func (h *ItineraryHandler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := h.openAt(w, r, "delete destination")
	if !ok {
		return
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.DeleteDestination(pos)
	})
	if err != nil {
		writeServiceError(w, r, "delete destination", err)
		return
	}

	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

func (h *ItineraryHandler) ChangeNights(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := h.openAt(w, r, "change nights")
	if !ok {
		return
	}

	var req dto.ChangeNightsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.ChangeNights(pos, req.Nights)
	})
	if err != nil {
		writeServiceError(w, r, "change nights", err)
		return
	}

	h.Service.Edited(r.Context())
	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

// SetLodging applies one lodging to every day of the destination.
func (h *ItineraryHandler) SetLodging(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := h.openAt(w, r, "set lodging")
	if !ok {
		return
	}

	var req dto.LodgingBody
	if !decodeJSON(w, r, &req) {
		return
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.LodgingPropagation(pos, strings.TrimSpace(req.Name), req.IsManual)
	})
	if err != nil {
		writeServiceError(w, r, "set lodging", err)
		return
	}

	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

func (h *ItineraryHandler) MoveDestination(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := h.openAt(w, r, "move destination")
	if !ok {
		return
	}

	var req dto.MoveDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.MoveDestination(pos, req.To)
	})
	if err != nil {
		writeServiceError(w, r, "move destination", err)
		return
	}

	writeJSON(w, r, http.StatusOK, itineraryResponse(snap))
}

func (h *ItineraryHandler) DayRange(w http.ResponseWriter, r *http.Request) {
	snap, pos, ok := h.openAt(w, r, "destination day range")
	if !ok {
		return
	}

	start, end, err := snap.DestinationDayRange(pos)
	if err != nil {
		writeServiceError(w, r, "destination day range", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DayRangeResponse{Position: pos, Start: start, End: end})
}

// openAt makes the path itinerary the open one and parses {pos}.
func (h *ItineraryHandler) openAt(w http.ResponseWriter, r *http.Request, op string) (*services.Snapshot, int, bool) {
	pos, ok := pathInt(w, r, "pos")
	if !ok {
		return nil, 0, false
	}
	snap, err := h.Service.Ensure(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, op, err)
		return nil, 0, false
	}
	return snap, pos, true
}

// apply runs mutate against the path itinerary. It fails instead of
// editing when another request opened a different itinerary meanwhile.
func (h *ItineraryHandler) apply(r *http.Request, mutate func(*services.Snapshot) (*services.Snapshot, error)) (*services.Snapshot, error) {
	return h.Service.Editor.ApplyTo(r.PathValue("id"), mutate)
}
