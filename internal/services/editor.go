package services

import (
	"fmt"
	"log"
	"sync"
	"trip-itinerary-service/internal/domain"
)

// Ticket identifies the editor state an asynchronous fetch was issued for.
//
// Generation changes whenever a load begins, successful or not;
// Revision changes with every applied local edit. A fetch result carrying an
// older ticket is discarded instead of overwriting fresher state.
type Ticket struct {
	ItineraryID string
	Generation  uint64
	Revision    uint64
}

// Editor owns the current snapshot of the itinerary being edited and swaps
// it atomically on every mutation. Readers get a complete snapshot, never a
// half-applied one.
type Editor struct {
	mu          sync.RWMutex
	current     *Snapshot
	itineraryID string
	generation  uint64
	revision    uint64
}

func NewEditor() *Editor {
	return &Editor{}
}

// Snapshot returns the current snapshot, or nil before anything is installed.
func (e *Editor) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Ticket captures the current identity, generation and revision.
func (e *Editor) Ticket() Ticket {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Ticket{ItineraryID: e.itineraryID, Generation: e.generation, Revision: e.revision}
}

// Current returns the snapshot together with the ticket describing it.
func (e *Editor) Current() (*Snapshot, Ticket) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current, Ticket{ItineraryID: e.itineraryID, Generation: e.generation, Revision: e.revision}
}

// Begin starts a new load generation for itineraryID. Results of fetches
// issued under any previous generation become stale. The open snapshot
// stays in place until Install replaces it, so a failed load loses nothing.
func (e *Editor) Begin(itineraryID string) Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	return Ticket{ItineraryID: itineraryID, Generation: e.generation, Revision: e.revision}
}

// Install replaces the whole state with it, if no later Begin happened.
func (e *Editor) Install(t Ticket, it domain.Itinerary) error {
	if t.ItineraryID != it.ID {
		return fmt.Errorf("install: ticket for %q used with itinerary %q: %w", t.ItineraryID, it.ID, ErrStaleTicket)
	}

	snap, err := NewSnapshot(it)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if t.Generation != e.generation {
		log.Printf("itinerary_id=%s op=editor.install discarded gen=%d current_gen=%d", t.ItineraryID, t.Generation, e.generation)
		return fmt.Errorf("install: %w", ErrStaleTicket)
	}

	e.current = snap
	e.itineraryID = it.ID
	e.revision++
	return nil
}

// BulkReplace swaps whole overlay stores with fetched entries, if t is still
// current. All kinds are applied in one swap.
func (e *Editor) BulkReplace(t Ticket, entries map[domain.OverlayKind]map[int]domain.OverlayValue) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkLocked(t); err != nil {
		log.Printf("itinerary_id=%s op=editor.bulk_replace discarded gen=%d rev=%d current_gen=%d current_rev=%d",
			t.ItineraryID, t.Generation, t.Revision, e.generation, e.revision)
		return fmt.Errorf("bulk replace: %w", err)
	}
	if e.current == nil {
		return fmt.Errorf("bulk replace: %w", ErrNoItinerary)
	}

	next := e.current
	for _, kind := range domain.OverlayKinds {
		m, ok := entries[kind]
		if !ok {
			continue
		}
		var err error
		if next, err = next.ReplaceOverlay(kind, m); err != nil {
			return fmt.Errorf("bulk replace: %w", err)
		}
	}

	e.current = next
	e.revision++
	return nil
}

func (e *Editor) checkLocked(t Ticket) error {
	if t.ItineraryID != e.itineraryID || t.Generation != e.generation || t.Revision != e.revision {
		return ErrStaleTicket
	}
	return nil
}

// Apply runs a mutation against the current snapshot and publishes the
// result. On error nothing changes.
func (e *Editor) Apply(mutate func(*Snapshot) (*Snapshot, error)) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(mutate)
}

// ApplyTo is Apply guarded by the itinerary the caller means to edit. It
// fails with ErrStaleTicket when another itinerary is open.
func (e *Editor) ApplyTo(itineraryID string, mutate func(*Snapshot) (*Snapshot, error)) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.itineraryID != itineraryID {
		return nil, fmt.Errorf("apply to %q: %q is open: %w", itineraryID, e.itineraryID, ErrStaleTicket)
	}
	return e.applyLocked(mutate)
}

func (e *Editor) applyLocked(mutate func(*Snapshot) (*Snapshot, error)) (*Snapshot, error) {
	if e.current == nil {
		return nil, ErrNoItinerary
	}

	next, err := mutate(e.current)
	if err != nil {
		return nil, err
	}
	if next != e.current {
		e.current = next
		e.revision++
	}
	return next, nil
}

func (e *Editor) ChangeNights(position, nights int) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.ChangeNights(position, nights) })
}

func (e *Editor) InsertDestination(position int, skeleton domain.Destination) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.InsertDestination(position, skeleton) })
}

func (e *Editor) AppendDestination(skeleton domain.Destination) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.AppendDestination(skeleton) })
}

func (e *Editor) DeleteDestination(position int) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.DeleteDestination(position) })
}

func (e *Editor) LodgingPropagation(position int, name string, isManual bool) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.LodgingPropagation(position, name, isManual) })
}

func (e *Editor) MoveDestination(from, to int) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.MoveDestination(from, to) })
}

func (e *Editor) UpdateDestination(position int, edit DestinationEdit) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.UpdateDestination(position, edit) })
}

func (e *Editor) SetOverlay(kind domain.OverlayKind, dayIndex int, v domain.OverlayValue) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.SetOverlay(kind, dayIndex, v) })
}

func (e *Editor) ClearOverlay(kind domain.OverlayKind, dayIndex int) (*Snapshot, error) {
	return e.Apply(func(s *Snapshot) (*Snapshot, error) { return s.ClearOverlay(kind, dayIndex) })
}
