package ports

import (
	"context"
	"errors"
	"trip-itinerary-service/internal/domain"
)

// ErrItineraryNotFound is returned when no itinerary has the requested id.
var ErrItineraryNotFound = errors.New("itinerary not found")

// Summary row for listing itineraries.
type ItinerarySummary struct {
	ID               string
	Title            string
	DestinationCount int
}

// Port: a boundary for loading and saving itineraries.
type ItineraryRepository interface {
	// Load the destinations (in sequence order) and explicit per-day overlays.
	LoadItinerary(ctx context.Context, id string) (domain.Itinerary, error)
	// Replace every stored row of the itinerary with it, in one batch.
	SaveItinerary(ctx context.Context, it domain.Itinerary) error
	// List stored itineraries ordered by title.
	ListItineraries(ctx context.Context) ([]ItinerarySummary, error)
}
