package services

import (
	"trip-itinerary-service/internal/domain"
)

// FoldForSave returns the itinerary to persist for snapshot s.
//
// Destination aggregates are recomputed from the effective per-day values of
// the days each destination owns: sightseeing is the union of its days'
// selections (tokens already on the automatic list stay automatic, the rest
// become manual), dining is the union of its days' picks and lodging is the
// lodging of its first day. A destination without days keeps its aggregates.
// Overlays carry only explicit entries, as the save replaces every per-day
// row of the itinerary.
func FoldForSave(s *Snapshot) domain.Itinerary {
	it := s.Itinerary()

	for pos := range it.Destinations {
		d := &it.Destinations[pos]
		start, end, _ := DestinationDayRange(it.Destinations, pos)
		if end <= start {
			continue
		}

		sights := make([][]string, 0, end-start)
		dining := make([][]string, 0, end-start)
		for day := start; day < end; day++ {
			sights = append(sights, s.overlayAt(domain.OverlaySightseeing, day, pos).Items)
			dining = append(dining, s.overlayAt(domain.OverlayDining, day, pos).Items)
		}

		union := domain.UnionTokens(sights...)
		d.AutoSightseeing, d.ManualSightseeing = splitAutoManual(d.AutoSightseeing, union)
		d.DiningAggregate = domain.UnionTokens(dining...)

		lodging := s.overlayAt(domain.OverlayLodging, start, pos).Lodging
		d.LodgingName = lodging.Name
		d.LodgingIsManual = lodging.IsManual
	}

	return it
}

// splitAutoManual keeps the automatic tokens still selected somewhere and
// files every other selected token as manual.
func splitAutoManual(auto, selected []string) (keptAuto, manual []string) {
	inSelected := make(map[string]struct{}, len(selected))
	for _, t := range selected {
		inSelected[t] = struct{}{}
	}

	keptAuto = []string{}
	isAuto := map[string]struct{}{}
	for _, t := range domain.UnionTokens(auto) {
		if _, ok := inSelected[t]; ok {
			keptAuto = append(keptAuto, t)
			isAuto[t] = struct{}{}
		}
	}

	manual = []string{}
	for _, t := range selected {
		if _, ok := isAuto[t]; !ok {
			manual = append(manual, t)
		}
	}
	return keptAuto, manual
}
