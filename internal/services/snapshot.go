package services

import (
	"log"
	"time"
	"trip-itinerary-service/internal/domain"

	"github.com/google/uuid"
)

// Snapshot is one immutable state of an itinerary being edited: the
// destination sequence together with the four overlay stores.
//
// Mutations never modify a Snapshot; they return a new one, so the sequence
// and its overlays are always published together.
type Snapshot struct {
	itineraryID string
	title       string
	start       time.Time

	dests       []domain.Destination
	sightseeing OverlayStore[[]string]
	lodging     OverlayStore[domain.Lodging]
	dining      OverlayStore[[]string]
	notes       OverlayStore[string]

	seeder DefaultSeeder
}

// NewSnapshot builds a snapshot from persisted state.
// Destinations without an id (or with a duplicate one) get a fresh id and
// overlay entries outside the trip's day range are dropped.
func NewSnapshot(it domain.Itinerary) (*Snapshot, error) {
	if len(it.Destinations) == 0 {
		return nil, invalid("new snapshot", ErrEmptyItinerary, "itinerary_id=%s", it.ID)
	}

	seen := make(map[string]struct{}, len(it.Destinations))
	dests := make([]domain.Destination, 0, len(it.Destinations))
	for i, d := range it.Destinations {
		if d.Nights < 0 {
			return nil, invalid("new snapshot", ErrNegativeNights, "position=%d nights=%d", i, d.Nights)
		}
		d = d.Clone()
		if _, dup := seen[d.ID]; d.ID == "" || dup {
			d.ID = uuid.NewString()
		}
		seen[d.ID] = struct{}{}
		dests = append(dests, d)
	}
	renumber(dests)

	s := &Snapshot{
		itineraryID: it.ID,
		title:       it.Title,
		start:       truncateToDate(it.StartDate),
		dests:       dests,
		sightseeing: NewOverlayStore(it.Sightseeing, cloneItems),
		lodging:     NewOverlayStore(it.Lodging, nil),
		dining:      NewOverlayStore(it.Dining, cloneItems),
		notes:       NewOverlayStore(it.Notes, nil),
	}

	total := s.TotalDays()
	if dropped := s.dropOutside(total); dropped > 0 {
		log.Printf("itinerary_id=%s op=snapshot.load dropped_orphans=%d total_days=%d", it.ID, dropped, total)
	}

	return s, nil
}

func (s *Snapshot) ItineraryID() string  { return s.itineraryID }
func (s *Snapshot) Title() string        { return s.title }
func (s *Snapshot) StartDate() time.Time { return s.start }

// Destinations returns a copy of the destination sequence.
func (s *Snapshot) Destinations() []domain.Destination {
	out := make([]domain.Destination, len(s.dests))
	for i, d := range s.dests {
		out[i] = d.Clone()
	}
	return out
}

// Destination returns a copy of the destination at position.
func (s *Snapshot) Destination(position int) (domain.Destination, bool) {
	if position < 0 || position >= len(s.dests) {
		return domain.Destination{}, false
	}
	return s.dests[position].Clone(), true
}

func (s *Snapshot) DestinationCount() int { return len(s.dests) }

func (s *Snapshot) TotalDays() int { return TotalDays(s.dests) }

// ProjectDays returns the day-by-day calendar of the trip.
func (s *Snapshot) ProjectDays() []domain.Day { return ProjectDays(s.dests, s.start) }

// DestinationDayRange returns the half-open day range owned by position.
func (s *Snapshot) DestinationDayRange(position int) (start, end int, err error) {
	start, end, ok := DestinationDayRange(s.dests, position)
	if !ok {
		return 0, 0, invalid("destination day range", ErrPositionOutOfRange, "position=%d count=%d", position, len(s.dests))
	}
	return start, end, nil
}

// Overlay returns the effective value of kind on dayIndex: the explicit
// entry when one exists, otherwise the owning destination's default.
func (s *Snapshot) Overlay(kind domain.OverlayKind, dayIndex int) (domain.OverlayValue, error) {
	pos, ok := ownerOf(s.dests, dayIndex)
	if !ok {
		return domain.OverlayValue{}, invalid("get overlay", ErrDayOutOfRange, "day=%d total=%d", dayIndex, s.TotalDays())
	}
	return s.overlayAt(kind, dayIndex, pos), nil
}

// IsExplicit reports whether dayIndex has an explicit entry of kind.
func (s *Snapshot) IsExplicit(kind domain.OverlayKind, dayIndex int) bool {
	switch kind {
	case domain.OverlaySightseeing:
		_, ok := s.sightseeing.Lookup(dayIndex)
		return ok
	case domain.OverlayLodging:
		_, ok := s.lodging.Lookup(dayIndex)
		return ok
	case domain.OverlayDining:
		_, ok := s.dining.Lookup(dayIndex)
		return ok
	case domain.OverlayNotes:
		_, ok := s.notes.Lookup(dayIndex)
		return ok
	}
	return false
}

func (s *Snapshot) overlayAt(kind domain.OverlayKind, dayIndex, owner int) domain.OverlayValue {
	seed := func() domain.OverlayValue { return s.seeder.Seed(s.dests[owner], kind) }

	switch kind {
	case domain.OverlaySightseeing:
		return domain.OverlayValue{Items: s.sightseeing.Get(dayIndex, func() []string { return seed().Items })}
	case domain.OverlayLodging:
		return domain.OverlayValue{Lodging: s.lodging.Get(dayIndex, func() domain.Lodging { return seed().Lodging })}
	case domain.OverlayDining:
		return domain.OverlayValue{Items: s.dining.Get(dayIndex, func() []string { return seed().Items })}
	case domain.OverlayNotes:
		return domain.OverlayValue{Note: s.notes.Get(dayIndex, func() string { return seed().Note })}
	}
	return domain.OverlayValue{}
}

// Itinerary returns the persisted form of the snapshot, overlays holding
// only explicit entries. Aggregates are not recomputed; see FoldForSave.
func (s *Snapshot) Itinerary() domain.Itinerary {
	return domain.Itinerary{
		ID:           s.itineraryID,
		Title:        s.title,
		StartDate:    s.start,
		Destinations: s.Destinations(),
		Sightseeing:  s.sightseeing.Entries(),
		Lodging:      s.lodging.Entries(),
		Dining:       s.dining.Entries(),
		Notes:        s.notes.Entries(),
	}
}

// clone copies the sequence; overlay stores are immutable and shared.
func (s *Snapshot) clone() *Snapshot {
	next := *s
	next.dests = make([]domain.Destination, len(s.dests))
	for i, d := range s.dests {
		next.dests[i] = d.Clone()
	}
	return &next
}

func (s *Snapshot) dropRange(start, end int) {
	s.sightseeing = s.sightseeing.DropRange(start, end)
	s.lodging = s.lodging.DropRange(start, end)
	s.dining = s.dining.DropRange(start, end)
	s.notes = s.notes.DropRange(start, end)
}

func (s *Snapshot) shiftRange(from, delta int) {
	s.sightseeing = s.sightseeing.ShiftRange(from, delta)
	s.lodging = s.lodging.ShiftRange(from, delta)
	s.dining = s.dining.ShiftRange(from, delta)
	s.notes = s.notes.ShiftRange(from, delta)
}

// dropOutside removes entries outside [0, total) and reports how many went.
func (s *Snapshot) dropOutside(total int) int {
	before := s.overlayLen()
	s.dropRange(total, maxKey(s)+1)
	s.dropRange(minKey(s), 0)
	return before - s.overlayLen()
}

func (s *Snapshot) overlayLen() int {
	return s.sightseeing.Len() + s.lodging.Len() + s.dining.Len() + s.notes.Len()
}

func (s *Snapshot) overlayKeys() []int {
	keys := s.sightseeing.Keys()
	keys = append(keys, s.lodging.Keys()...)
	keys = append(keys, s.dining.Keys()...)
	return append(keys, s.notes.Keys()...)
}

func maxKey(s *Snapshot) int {
	m := 0
	for _, k := range s.overlayKeys() {
		m = max(m, k)
	}
	return m
}

func minKey(s *Snapshot) int {
	m := 0
	for _, k := range s.overlayKeys() {
		m = min(m, k)
	}
	return m
}

func renumber(dests []domain.Destination) {
	for i := range dests {
		dests[i].Position = i
	}
}
