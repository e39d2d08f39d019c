package services

import (
	"trip-itinerary-service/internal/domain"
)

// DefaultSeeder computes the fallback value of a day that has no explicit
// overlay entry, from the aggregate fields of the destination owning it.
type DefaultSeeder struct{}

// Seed returns the default overlay value of kind for destination d.
//
// Sightseeing concatenates the automatic and manual aggregates, dining uses
// the dining aggregate and lodging the destination's lodging. Notes have no
// destination-level default.
func (DefaultSeeder) Seed(d domain.Destination, kind domain.OverlayKind) domain.OverlayValue {
	switch kind {
	case domain.OverlaySightseeing:
		return domain.OverlayValue{Items: domain.UnionTokens(d.AutoSightseeing, d.ManualSightseeing)}
	case domain.OverlayDining:
		return domain.OverlayValue{Items: domain.UnionTokens(d.DiningAggregate)}
	case domain.OverlayLodging:
		return domain.OverlayValue{Lodging: domain.Lodging{Name: d.LodgingName, IsManual: d.LodgingIsManual}}
	default:
		return domain.OverlayValue{}
	}
}
