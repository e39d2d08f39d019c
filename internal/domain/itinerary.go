package domain

import (
	"time"

	"github.com/google/uuid"
)

// Represents the persisted state of one trip.
// Overlay maps hold only explicit per-day entries keyed by absolute day-index;
// a missing key means the day falls back to its destination defaults.
type Itinerary struct {
	ID           string
	Title        string
	StartDate    time.Time
	Destinations []Destination
	Sightseeing  map[int][]string
	Lodging      map[int]Lodging
	Dining       map[int][]string
	Notes        map[int]string
}

// NewItinerary returns an itinerary holding a single empty destination.
func NewItinerary(title string, start time.Time) Itinerary {
	return Itinerary{
		ID:           uuid.NewString(),
		Title:        title,
		StartDate:    start,
		Destinations: []Destination{NewDestination("")},
		Sightseeing:  map[int][]string{},
		Lodging:      map[int]Lodging{},
		Dining:       map[int][]string{},
		Notes:        map[int]string{},
	}
}
