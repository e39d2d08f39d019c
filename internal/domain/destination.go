package domain

import "github.com/google/uuid"

// Represents a named stop in a trip with a duration expressed in nights.
// ID is stable for the lifetime of the destination; Position is its index
// in the itinerary sequence and is recomputed whenever the sequence changes.
type Destination struct {
	ID                string
	Position          int
	Name              string
	Nights            int
	AutoSightseeing   []string
	ManualSightseeing []string
	LodgingName       string
	LodgingIsManual   bool
	DiningAggregate   []string
	TransportToNext   string
	Notes             string
}

// NewDestination returns an empty destination with a fresh id and one night,
// the shape created by the "add destination" action.
func NewDestination(name string) Destination {
	return Destination{
		ID:     uuid.NewString(),
		Name:   name,
		Nights: 1,
	}
}

// Clone returns a deep copy so snapshots never share backing arrays.
func (d Destination) Clone() Destination {
	d.AutoSightseeing = cloneStrings(d.AutoSightseeing)
	d.ManualSightseeing = cloneStrings(d.ManualSightseeing)
	d.DiningAggregate = cloneStrings(d.DiningAggregate)
	return d
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
