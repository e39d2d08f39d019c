package services

import (
	"slices"
	"trip-itinerary-service/internal/domain"

	"github.com/google/uuid"
)

// DestinationEdit changes destination content without touching its nights.
// Nil fields are left as they are.
type DestinationEdit struct {
	Name              *string
	AutoSightseeing   []string
	ManualSightseeing []string
	DiningAggregate   []string
	TransportToNext   *string
	Notes             *string

	SetAutoSightseeing   bool
	SetManualSightseeing bool
	SetDiningAggregate   bool
}

// ChangeNights sets the nights of the destination at position and
// re-indexes every overlay after it.
//
// Growing pushes later entries forward and seeds the opened days with the
// destination's current lodging. Shrinking drops the entries of the
// truncated tail before pulling later entries back. Repeating the call with
// the same value is a no-op.
func (s *Snapshot) ChangeNights(position, nights int) (*Snapshot, error) {
	const op = "change nights"

	oldStart, oldEnd, ok := DestinationDayRange(s.dests, position)
	if !ok {
		return nil, invalid(op, ErrPositionOutOfRange, "position=%d count=%d", position, len(s.dests))
	}
	if nights < 0 {
		return nil, invalid(op, ErrNegativeNights, "position=%d nights=%d", position, nights)
	}

	delta := nights - (oldEnd - oldStart)
	if delta == 0 {
		return s, nil
	}

	next := s.clone()
	next.dests[position].Nights = nights

	if delta > 0 {
		lodging := s.currentLodging(position, oldStart, oldEnd)
		next.shiftRange(oldEnd, delta)
		if lodging.Name != "" {
			next.lodging = next.lodging.SetRange(oldEnd, oldEnd+delta, lodging)
		}
	} else {
		newEnd := oldStart + nights
		next.dropRange(newEnd, oldEnd)
		next.shiftRange(oldEnd, delta)
	}

	return next.verified(op)
}

// InsertDestination inserts skeleton at position and pushes every overlay
// entry from the insertion point forward by the skeleton's nights.
// position may equal the destination count to append.
func (s *Snapshot) InsertDestination(position int, skeleton domain.Destination) (*Snapshot, error) {
	const op = "insert destination"

	if position < 0 || position > len(s.dests) {
		return nil, invalid(op, ErrPositionOutOfRange, "position=%d count=%d", position, len(s.dests))
	}
	if skeleton.Nights < 0 {
		return nil, invalid(op, ErrNegativeNights, "nights=%d", skeleton.Nights)
	}

	insertStart := TotalDays(s.dests[:position])

	skeleton = skeleton.Clone()
	if skeleton.ID == "" || s.hasID(skeleton.ID) {
		skeleton.ID = uuid.NewString()
	}

	next := s.clone()
	next.dests = slices.Insert(next.dests, position, skeleton)
	renumber(next.dests)
	next.shiftRange(insertStart, skeleton.Nights)

	return next.verified(op)
}

// AppendDestination adds skeleton at the end of the sequence.
func (s *Snapshot) AppendDestination(skeleton domain.Destination) (*Snapshot, error) {
	return s.InsertDestination(len(s.dests), skeleton)
}

// DeleteDestination removes the destination at position together with the
// overlay entries of its days, and pulls later entries back.
func (s *Snapshot) DeleteDestination(position int) (*Snapshot, error) {
	const op = "delete destination"

	start, end, ok := DestinationDayRange(s.dests, position)
	if !ok {
		return nil, invalid(op, ErrPositionOutOfRange, "position=%d count=%d", position, len(s.dests))
	}
	if len(s.dests) == 1 {
		return nil, invalid(op, ErrLastDestination, "position=%d", position)
	}

	next := s.clone()
	next.dests = slices.Delete(next.dests, position, position+1)
	renumber(next.dests)
	next.dropRange(start, end)
	next.shiftRange(end, -(end - start))

	return next.verified(op)
}

// LodgingPropagation assigns lodging to every day of the destination at
// position and records it as the destination's lodging. A later per-day
// edit overrides only that day.
func (s *Snapshot) LodgingPropagation(position int, name string, isManual bool) (*Snapshot, error) {
	const op = "propagate lodging"

	start, end, ok := DestinationDayRange(s.dests, position)
	if !ok {
		return nil, invalid(op, ErrPositionOutOfRange, "position=%d count=%d", position, len(s.dests))
	}

	next := s.clone()
	next.dests[position].LodgingName = name
	next.dests[position].LodgingIsManual = isManual
	next.lodging = next.lodging.SetRange(start, end, domain.Lodging{Name: name, IsManual: isManual})

	return next.verified(op)
}

// MoveDestination reorders the sequence. Overlay entries travel with the
// destination that owns them.
func (s *Snapshot) MoveDestination(from, to int) (*Snapshot, error) {
	const op = "move destination"

	if from < 0 || from >= len(s.dests) {
		return nil, invalid(op, ErrPositionOutOfRange, "from=%d count=%d", from, len(s.dests))
	}
	if to < 0 || to >= len(s.dests) {
		return nil, invalid(op, ErrPositionOutOfRange, "to=%d count=%d", to, len(s.dests))
	}
	if from == to {
		return s, nil
	}

	next := s.clone()
	moved := next.dests[from]
	next.dests = slices.Delete(next.dests, from, from+1)
	next.dests = slices.Insert(next.dests, to, moved)
	renumber(next.dests)

	next.sightseeing = rekeyByDestination(s.sightseeing, s.dests, next.dests)
	next.lodging = rekeyByDestination(s.lodging, s.dests, next.dests)
	next.dining = rekeyByDestination(s.dining, s.dests, next.dests)
	next.notes = rekeyByDestination(s.notes, s.dests, next.dests)

	return next.verified(op)
}

// UpdateDestination edits destination content. Day indices are unaffected;
// unset days pick up the new aggregates through their seed.
func (s *Snapshot) UpdateDestination(position int, edit DestinationEdit) (*Snapshot, error) {
	const op = "update destination"

	if position < 0 || position >= len(s.dests) {
		return nil, invalid(op, ErrPositionOutOfRange, "position=%d count=%d", position, len(s.dests))
	}

	next := s.clone()
	d := &next.dests[position]
	if edit.Name != nil {
		d.Name = *edit.Name
	}
	if edit.SetAutoSightseeing {
		d.AutoSightseeing = domain.UnionTokens(edit.AutoSightseeing)
	}
	if edit.SetManualSightseeing {
		d.ManualSightseeing = domain.UnionTokens(edit.ManualSightseeing)
	}
	if edit.SetDiningAggregate {
		d.DiningAggregate = domain.UnionTokens(edit.DiningAggregate)
	}
	if edit.TransportToNext != nil {
		d.TransportToNext = *edit.TransportToNext
	}
	if edit.Notes != nil {
		d.Notes = *edit.Notes
	}

	return next.verified(op)
}

// SetOverlay stores an explicit value of kind on exactly one day.
func (s *Snapshot) SetOverlay(kind domain.OverlayKind, dayIndex int, v domain.OverlayValue) (*Snapshot, error) {
	const op = "set overlay"

	if dayIndex < 0 || dayIndex >= s.TotalDays() {
		return nil, invalid(op, ErrDayOutOfRange, "kind=%s day=%d total=%d", kind, dayIndex, s.TotalDays())
	}

	next := s.clone()
	switch kind {
	case domain.OverlaySightseeing:
		next.sightseeing = next.sightseeing.Set(dayIndex, normalizeItems(v.Items))
	case domain.OverlayLodging:
		next.lodging = next.lodging.Set(dayIndex, v.Lodging)
	case domain.OverlayDining:
		next.dining = next.dining.Set(dayIndex, normalizeItems(v.Items))
	case domain.OverlayNotes:
		next.notes = next.notes.Set(dayIndex, v.Note)
	default:
		return nil, invalid(op, ErrInvariantViolated, "unknown kind %d", int(kind))
	}

	return next.verified(op)
}

// ClearOverlay returns one day of kind to the unset state.
func (s *Snapshot) ClearOverlay(kind domain.OverlayKind, dayIndex int) (*Snapshot, error) {
	const op = "clear overlay"

	if dayIndex < 0 || dayIndex >= s.TotalDays() {
		return nil, invalid(op, ErrDayOutOfRange, "kind=%s day=%d total=%d", kind, dayIndex, s.TotalDays())
	}

	next := s.clone()
	switch kind {
	case domain.OverlaySightseeing:
		next.sightseeing = next.sightseeing.Clear(dayIndex)
	case domain.OverlayLodging:
		next.lodging = next.lodging.Clear(dayIndex)
	case domain.OverlayDining:
		next.dining = next.dining.Clear(dayIndex)
	case domain.OverlayNotes:
		next.notes = next.notes.Clear(dayIndex)
	}

	return next.verified(op)
}

// ReplaceOverlay swaps the whole store of kind for entries.
func (s *Snapshot) ReplaceOverlay(kind domain.OverlayKind, entries map[int]domain.OverlayValue) (*Snapshot, error) {
	const op = "replace overlay"

	total := s.TotalDays()
	for day := range entries {
		if day < 0 || day >= total {
			return nil, invalid(op, ErrDayOutOfRange, "kind=%s day=%d total=%d", kind, day, total)
		}
	}

	next := s.clone()
	switch kind {
	case domain.OverlaySightseeing:
		next.sightseeing = next.sightseeing.BulkReplace(itemsOf(entries))
	case domain.OverlayDining:
		next.dining = next.dining.BulkReplace(itemsOf(entries))
	case domain.OverlayLodging:
		m := make(map[int]domain.Lodging, len(entries))
		for k, v := range entries {
			m[k] = v.Lodging
		}
		next.lodging = next.lodging.BulkReplace(m)
	case domain.OverlayNotes:
		m := make(map[int]string, len(entries))
		for k, v := range entries {
			m[k] = v.Note
		}
		next.notes = next.notes.BulkReplace(m)
	}

	return next.verified(op)
}

// currentLodging is the lodging in effect on the destination's last day, or
// the destination default when it has no days.
func (s *Snapshot) currentLodging(position, start, end int) domain.Lodging {
	if end > start {
		return s.overlayAt(domain.OverlayLodging, end-1, position).Lodging
	}
	return s.seeder.Seed(s.dests[position], domain.OverlayLodging).Lodging
}

func (s *Snapshot) hasID(id string) bool {
	for _, d := range s.dests {
		if d.ID == id {
			return true
		}
	}
	return false
}

// verified checks the invariants every mutation must preserve and rejects
// the new snapshot when one fails.
func (s *Snapshot) verified(op string) (*Snapshot, error) {
	if len(s.dests) == 0 {
		return nil, invalid(op, ErrInvariantViolated, "empty sequence")
	}

	sum := 0
	for i, d := range s.dests {
		if d.Nights < 0 {
			return nil, invalid(op, ErrInvariantViolated, "position=%d nights=%d", i, d.Nights)
		}
		if d.Position != i {
			return nil, invalid(op, ErrInvariantViolated, "position=%d recorded=%d", i, d.Position)
		}
		sum += d.Nights
	}

	total := len(s.ProjectDays())
	if total != sum {
		return nil, invalid(op, ErrInvariantViolated, "days=%d nights=%d", total, sum)
	}

	for _, k := range s.overlayKeys() {
		if k < 0 || k >= total {
			return nil, invalid(op, ErrInvariantViolated, "orphan day=%d total=%d", k, total)
		}
	}

	return s, nil
}

// rekeyByDestination translates every entry to (destination, offset) under
// the old sequence and back to an absolute day-index under the new one.
// Entries whose destination is gone, or whose offset no longer fits, drop.
func rekeyByDestination[T any](st OverlayStore[T], oldDests, newDests []domain.Destination) OverlayStore[T] {
	type slot struct{ start, nights int }

	newSlots := make(map[string]slot, len(newDests))
	cursor := 0
	for _, d := range newDests {
		n := max(d.Nights, 0)
		newSlots[d.ID] = slot{start: cursor, nights: n}
		cursor += n
	}

	out := make(map[int]T, st.Len())
	for day, v := range st.Entries() {
		pos, ok := ownerOf(oldDests, day)
		if !ok {
			continue
		}
		oldStart, _, _ := DestinationDayRange(oldDests, pos)
		ns, ok := newSlots[oldDests[pos].ID]
		if !ok {
			continue
		}
		offset := day - oldStart
		if offset >= ns.nights {
			continue
		}
		out[ns.start+offset] = v
	}

	return st.BulkReplace(out)
}

func normalizeItems(items []string) []string {
	return domain.UnionTokens(items)
}

func itemsOf(entries map[int]domain.OverlayValue) map[int][]string {
	m := make(map[int][]string, len(entries))
	for k, v := range entries {
		m[k] = normalizeItems(v.Items)
	}
	return m
}
