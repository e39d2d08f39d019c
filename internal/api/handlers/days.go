package handlers

import (
	"net/http"
	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/services"
)

func (h *ItineraryHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Ensure(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list days", err)
		return
	}

	days := snap.ProjectDays()
	res := dto.ListDaysResponse{Days: make([]dto.DayResponse, 0, len(days))}
	for _, d := range days {
		day, err := dayResponse(snap, d)
		if err != nil {
			writeServiceError(w, r, "list days", err)
			return
		}
		res.Days = append(res.Days, day)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItineraryHandler) GetOverlay(w http.ResponseWriter, r *http.Request) {
	snap, day, kind, ok := h.openDay(w, r, "get overlay")
	if !ok {
		return
	}

	h.writeOverlay(w, r, "get overlay", snap, kind, day)
}

func (h *ItineraryHandler) SetOverlay(w http.ResponseWriter, r *http.Request) {
	_, day, kind, ok := h.openDay(w, r, "set overlay")
	if !ok {
		return
	}

	var req dto.OverlayBody
	if !decodeJSON(w, r, &req) {
		return
	}

	v := domain.OverlayValue{Items: req.Items, Note: req.Note}
	if req.Lodging != nil {
		v.Lodging = domain.Lodging{Name: req.Lodging.Name, IsManual: req.Lodging.IsManual}
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.SetOverlay(kind, day, v)
	})
	if err != nil {
		writeServiceError(w, r, "set overlay", err)
		return
	}

	h.writeOverlay(w, r, "set overlay", snap, kind, day)
}

// ClearOverlay drops the explicit entry so the day falls back to its default.
func (h *ItineraryHandler) ClearOverlay(w http.ResponseWriter, r *http.Request) {
	_, day, kind, ok := h.openDay(w, r, "clear overlay")
	if !ok {
		return
	}

	snap, err := h.apply(r, func(s *services.Snapshot) (*services.Snapshot, error) {
		return s.ClearOverlay(kind, day)
	})
	if err != nil {
		writeServiceError(w, r, "clear overlay", err)
		return
	}

	h.writeOverlay(w, r, "clear overlay", snap, kind, day)
}

func (h *ItineraryHandler) writeOverlay(w http.ResponseWriter, r *http.Request, op string, snap *services.Snapshot, kind domain.OverlayKind, day int) {
	v, err := snap.Overlay(kind, day)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OverlayResponse{
		DayIndex: day,
		Kind:     kind.String(),
		Explicit: snap.IsExplicit(kind, day),
		Value:    overlayBody(kind, v),
	})
}

// openDay makes the path itinerary the open one and parses {day} and {kind}.
func (h *ItineraryHandler) openDay(w http.ResponseWriter, r *http.Request, op string) (*services.Snapshot, int, domain.OverlayKind, bool) {
	day, ok := pathInt(w, r, "day")
	if !ok {
		return nil, 0, 0, false
	}

	kind, err := domain.ParseOverlayKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, 0, 0, false
	}

	snap, err := h.Service.Ensure(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, op, err)
		return nil, 0, 0, false
	}
	return snap, day, kind, true
}

func dayResponse(snap *services.Snapshot, d domain.Day) (dto.DayResponse, error) {
	res := dto.DayResponse{
		DayIndex:          d.DayIndex,
		Date:              d.Date.Format(dateLayout),
		DestinationID:     d.OwnerID,
		OwnerPosition:     d.OwnerPosition,
		IsFirstDayOfOwner: d.IsFirstDayOfOwner,
		IsLastDayOfOwner:  d.IsLastDayOfOwner,
	}

	for _, kind := range domain.OverlayKinds {
		v, err := snap.Overlay(kind, d.DayIndex)
		if err != nil {
			return dto.DayResponse{}, err
		}
		switch kind {
		case domain.OverlaySightseeing:
			res.Sightseeing = nonNil(v.Items)
		case domain.OverlayLodging:
			res.Lodging = dto.LodgingBody{Name: v.Lodging.Name, IsManual: v.Lodging.IsManual}
		case domain.OverlayDining:
			res.Dining = nonNil(v.Items)
		case domain.OverlayNotes:
			res.Note = v.Note
		}
	}

	return res, nil
}

func overlayBody(kind domain.OverlayKind, v domain.OverlayValue) dto.OverlayBody {
	switch kind {
	case domain.OverlayLodging:
		return dto.OverlayBody{Lodging: &dto.LodgingBody{Name: v.Lodging.Name, IsManual: v.Lodging.IsManual}}
	case domain.OverlayNotes:
		return dto.OverlayBody{Note: v.Note}
	default:
		return dto.OverlayBody{Items: nonNil(v.Items)}
	}
}
