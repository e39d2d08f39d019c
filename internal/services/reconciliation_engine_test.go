package services

import (
	"fmt"
	"math/rand"
	"testing"
	"trip-itinerary-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overlayAt(t *testing.T, s *Snapshot, kind domain.OverlayKind, day int) domain.OverlayValue {
	t.Helper()
	v, err := s.Overlay(kind, day)
	require.NoError(t, err)
	return v
}

func TestChangeNightsShiftsLaterDestinations(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 3}, stop{"Venice", 2})

	s, err := s.SetOverlay(domain.OverlaySightseeing, 3, domain.OverlayValue{Items: []string{"Doge's Palace"}})
	require.NoError(t, err)

	s, err = s.ChangeNights(0, 5)
	require.NoError(t, err)

	start, end, err := s.DestinationDayRange(1)
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, end)

	assert.Equal(t, []string{"Doge's Palace"}, overlayAt(t, s, domain.OverlaySightseeing, 5).Items)
	assert.False(t, s.IsExplicit(domain.OverlaySightseeing, 3))

	days := s.ProjectDays()
	require.Len(t, days, 7)
	assert.Equal(t, 0, days[3].OwnerPosition)
	assert.Equal(t, 0, days[4].OwnerPosition)
	assert.Equal(t, 1, days[5].OwnerPosition)
}

func TestChangeNightsSeedsLodgingOnNewDays(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 3}, stop{"Venice", 2})

	s, err := s.LodgingPropagation(0, "Hotel A", false)
	require.NoError(t, err)
	s, err = s.ChangeNights(0, 5)
	require.NoError(t, err)

	for day := 0; day < 5; day++ {
		assert.Equal(t, "Hotel A", overlayAt(t, s, domain.OverlayLodging, day).Lodging.Name, "day %d", day)
	}

	s, err = s.SetOverlay(domain.OverlayLodging, 4, domain.OverlayValue{Lodging: domain.Lodging{Name: "Hotel B", IsManual: true}})
	require.NoError(t, err)

	for day := 0; day < 4; day++ {
		assert.Equal(t, "Hotel A", overlayAt(t, s, domain.OverlayLodging, day).Lodging.Name, "day %d", day)
	}
	assert.Equal(t, domain.Lodging{Name: "Hotel B", IsManual: true}, overlayAt(t, s, domain.OverlayLodging, 4).Lodging)
}

func TestChangeNightsWithoutLodgingLeavesNewDaysUnset(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 1}, stop{"Venice", 1})

	s, err := s.ChangeNights(0, 3)
	require.NoError(t, err)

	for day := 0; day < 3; day++ {
		assert.False(t, s.IsExplicit(domain.OverlayLodging, day), "day %d", day)
	}
}

func TestChangeNightsShrinkDropsTruncatedDays(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 3}, stop{"Venice", 2})
	for day, note := range map[int]string{0: "r0", 1: "r1", 2: "r2", 3: "v0", 4: "v1"} {
		var err error
		s, err = s.SetOverlay(domain.OverlayNotes, day, domain.OverlayValue{Note: note})
		require.NoError(t, err)
	}

	s, err := s.ChangeNights(0, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalDays())
	assert.Equal(t, map[int]string{0: "r0", 1: "v0", 2: "v1"}, s.Itinerary().Notes)
}

func TestChangeNightsToZeroKeepsDestination(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 2}, stop{"Venice", 2})
	s, err := s.SetOverlay(domain.OverlayNotes, 2, domain.OverlayValue{Note: "v0"})
	require.NoError(t, err)

	s, err = s.ChangeNights(0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, s.DestinationCount())
	assert.Equal(t, map[int]string{0: "v0"}, s.Itinerary().Notes)

	start, end, err := s.DestinationDayRange(0)
	require.NoError(t, err)
	assert.Equal(t, start, end)
}

func TestChangeNightsIsIdempotent(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 3}, stop{"Venice", 2})
	s, err := s.SetOverlay(domain.OverlayDining, 3, domain.OverlayValue{Items: []string{"Antiche Carampane"}})
	require.NoError(t, err)

	once, err := s.ChangeNights(0, 5)
	require.NoError(t, err)
	twice, err := once.ChangeNights(0, 5)
	require.NoError(t, err)

	assert.Same(t, once, twice)
	assert.Equal(t, map[int][]string{5: {"Antiche Carampane"}}, twice.Itinerary().Dining)
}

func TestChangeNightsRejectsInvalidInput(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 3})

	_, err := s.ChangeNights(0, -1)
	assert.ErrorIs(t, err, ErrNegativeNights)

	_, err = s.ChangeNights(1, 2)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "change nights", ve.Op)
	assert.Equal(t, 3, s.TotalDays())
}

func TestDeleteDestinationPullsLaterEntriesBack(t *testing.T) {
	s := snapshotOf(t, stop{"A", 2}, stop{"B", 3}, stop{"C", 1})
	for day, note := range map[int]string{1: "a1", 3: "b1", 5: "c0"} {
		var err error
		s, err = s.SetOverlay(domain.OverlayNotes, day, domain.OverlayValue{Note: note})
		require.NoError(t, err)
	}

	withoutB, err := s.DeleteDestination(1)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "a1", 2: "c0"}, withoutB.Itinerary().Notes)
	assert.Equal(t, 3, withoutB.TotalDays())

	withoutA, err := s.DeleteDestination(0)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "b1", 3: "c0"}, withoutA.Itinerary().Notes)

	dests := withoutA.Destinations()
	require.Len(t, dests, 2)
	assert.Equal(t, "B", dests[0].Name)
	assert.Equal(t, 0, dests[0].Position)
	assert.Equal(t, 1, dests[1].Position)
}

func TestDeleteLastDestinationIsRejected(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 3})
	s, err := s.SetOverlay(domain.OverlayNotes, 0, domain.OverlayValue{Note: "arrive"})
	require.NoError(t, err)

	next, err := s.DeleteDestination(0)
	assert.ErrorIs(t, err, ErrLastDestination)
	assert.Nil(t, next)

	assert.Equal(t, 1, s.DestinationCount())
	assert.Equal(t, map[int]string{0: "arrive"}, s.Itinerary().Notes)
}

func TestInsertDestinationPushesLaterEntries(t *testing.T) {
	s := snapshotOf(t, stop{"A", 2}, stop{"B", 1})
	s, err := s.SetOverlay(domain.OverlayNotes, 2, domain.OverlayValue{Note: "b0"})
	require.NoError(t, err)

	skeleton := domain.NewDestination("Mid")
	skeleton.Nights = 2
	s, err = s.InsertDestination(1, skeleton)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{4: "b0"}, s.Itinerary().Notes)
	assert.False(t, s.IsExplicit(domain.OverlayNotes, 2))
	assert.False(t, s.IsExplicit(domain.OverlayNotes, 3))

	d, ok := s.Destination(1)
	require.True(t, ok)
	assert.Equal(t, "Mid", d.Name)
	assert.Equal(t, 1, d.Position)
}

func TestInsertDestinationReplacesDuplicateID(t *testing.T) {
	s := snapshotOf(t, stop{"A", 1})
	existing, _ := s.Destination(0)

	skeleton := domain.NewDestination("B")
	skeleton.ID = existing.ID
	s, err := s.AppendDestination(skeleton)
	require.NoError(t, err)

	dests := s.Destinations()
	require.Len(t, dests, 2)
	assert.NotEqual(t, dests[0].ID, dests[1].ID)
}

func TestInsertDestinationRejectsInvalidInput(t *testing.T) {
	s := snapshotOf(t, stop{"A", 1})

	_, err := s.InsertDestination(2, domain.NewDestination("B"))
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	bad := domain.NewDestination("B")
	bad.Nights = -2
	_, err = s.InsertDestination(0, bad)
	assert.ErrorIs(t, err, ErrNegativeNights)
}

func TestMoveDestinationCarriesOverlays(t *testing.T) {
	s := snapshotOf(t, stop{"A", 2}, stop{"B", 1})
	for day, note := range map[int]string{0: "a0", 1: "a1", 2: "b0"} {
		var err error
		s, err = s.SetOverlay(domain.OverlayNotes, day, domain.OverlayValue{Note: note})
		require.NoError(t, err)
	}

	moved, err := s.MoveDestination(0, 1)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{0: "b0", 1: "a0", 2: "a1"}, moved.Itinerary().Notes)
	d, _ := moved.Destination(0)
	assert.Equal(t, "B", d.Name)

	same, err := s.MoveDestination(1, 1)
	require.NoError(t, err)
	assert.Same(t, s, same)

	_, err = s.MoveDestination(0, 2)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
}

func TestLodgingPropagationOverridesEveryDay(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 2}, stop{"Venice", 1})
	s, err := s.SetOverlay(domain.OverlayLodging, 1, domain.OverlayValue{Lodging: domain.Lodging{Name: "Old"}})
	require.NoError(t, err)

	s, err = s.LodgingPropagation(0, "Hotel A", true)
	require.NoError(t, err)

	assert.Equal(t, map[int]domain.Lodging{0: {Name: "Hotel A", IsManual: true}, 1: {Name: "Hotel A", IsManual: true}}, s.Itinerary().Lodging)
	d, _ := s.Destination(0)
	assert.Equal(t, "Hotel A", d.LodgingName)
	assert.True(t, d.LodgingIsManual)
	assert.False(t, s.IsExplicit(domain.OverlayLodging, 2))
}

func TestUpdateDestinationReseedsUnsetDays(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 2})
	s, err := s.SetOverlay(domain.OverlayDining, 0, domain.OverlayValue{Items: []string{"Mine"}})
	require.NoError(t, err)

	name := "Roma"
	s, err = s.UpdateDestination(0, DestinationEdit{
		Name:               &name,
		DiningAggregate:    []string{"Roscioli", " Roscioli ", ""},
		SetDiningAggregate: true,
	})
	require.NoError(t, err)

	d, _ := s.Destination(0)
	assert.Equal(t, "Roma", d.Name)
	assert.Equal(t, 2, d.Nights)
	assert.Equal(t, []string{"Roscioli"}, d.DiningAggregate)
	assert.Equal(t, []string{"Mine"}, overlayAt(t, s, domain.OverlayDining, 0).Items)
	assert.Equal(t, []string{"Roscioli"}, overlayAt(t, s, domain.OverlayDining, 1).Items)
}

func TestSetAndClearOverlay(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 2})

	_, err := s.SetOverlay(domain.OverlayNotes, 2, domain.OverlayValue{Note: "x"})
	assert.ErrorIs(t, err, ErrDayOutOfRange)

	set, err := s.SetOverlay(domain.OverlaySightseeing, 1, domain.OverlayValue{Items: []string{}})
	require.NoError(t, err)
	assert.True(t, set.IsExplicit(domain.OverlaySightseeing, 1))
	assert.False(t, s.IsExplicit(domain.OverlaySightseeing, 1))

	cleared, err := set.ClearOverlay(domain.OverlaySightseeing, 1)
	require.NoError(t, err)
	assert.False(t, cleared.IsExplicit(domain.OverlaySightseeing, 1))

	_, err = set.ClearOverlay(domain.OverlaySightseeing, -1)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestReplaceOverlayRejectsOutOfRangeDays(t *testing.T) {
	s := snapshotOf(t, stop{"Rome", 2})

	_, err := s.ReplaceOverlay(domain.OverlayDining, map[int]domain.OverlayValue{2: {Items: []string{"x"}}})
	assert.ErrorIs(t, err, ErrDayOutOfRange)

	s, err = s.ReplaceOverlay(domain.OverlayDining, map[int]domain.OverlayValue{1: {Items: []string{"x", "x"}}})
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{1: {"x"}}, s.Itinerary().Dining)
}

func TestMutationsPreserveInvariants(t *testing.T) {
	s := snapshotOf(t, stop{"A", 2}, stop{"B", 3}, stop{"C", 1})

	steps := []func(*Snapshot) (*Snapshot, error){
		func(s *Snapshot) (*Snapshot, error) { return s.LodgingPropagation(1, "Inn", false) },
		func(s *Snapshot) (*Snapshot, error) { return s.ChangeNights(1, 5) },
		func(s *Snapshot) (*Snapshot, error) {
			return s.SetOverlay(domain.OverlayNotes, 7, domain.OverlayValue{Note: "late"})
		},
		func(s *Snapshot) (*Snapshot, error) { return s.MoveDestination(2, 0) },
		func(s *Snapshot) (*Snapshot, error) { return s.ChangeNights(2, 1) },
		func(s *Snapshot) (*Snapshot, error) { return s.InsertDestination(1, domain.NewDestination("D")) },
		func(s *Snapshot) (*Snapshot, error) { return s.DeleteDestination(3) },
	}

	for i, step := range steps {
		var err error
		s, err = step(s)
		require.NoError(t, err, "step %d", i)

		_, err = s.verified("check")
		require.NoError(t, err, "step %d", i)

		sum := 0
		for pos, d := range s.Destinations() {
			assert.Equal(t, pos, d.Position)
			sum += d.Nights
		}
		assert.Len(t, s.ProjectDays(), sum)
	}
}

// noteModel tracks notes by the destination and offset that own them, which
// is what every structural edit must preserve.
type noteModel struct {
	dests []modelStop
	notes map[noteKey]string
}

type modelStop struct {
	id     string
	nights int
}

type noteKey struct {
	id     string
	offset int
}

func newNoteModel(s *Snapshot) *noteModel {
	m := &noteModel{notes: map[noteKey]string{}}
	for _, d := range s.Destinations() {
		m.dests = append(m.dests, modelStop{id: d.ID, nights: d.Nights})
	}
	return m
}

func (m *noteModel) total() int {
	sum := 0
	for _, d := range m.dests {
		sum += d.nights
	}
	return sum
}

func (m *noteModel) owner(day int) noteKey {
	for _, d := range m.dests {
		if day < d.nights {
			return noteKey{id: d.id, offset: day}
		}
		day -= d.nights
	}
	panic(fmt.Sprintf("day %d outside model", day))
}

func (m *noteModel) dropOwner(id string, fromOffset int) {
	for k := range m.notes {
		if k.id == id && k.offset >= fromOffset {
			delete(m.notes, k)
		}
	}
}

func (m *noteModel) byDay() map[int]string {
	out := map[int]string{}
	cursor := 0
	for _, d := range m.dests {
		for offset := 0; offset < d.nights; offset++ {
			if note, ok := m.notes[noteKey{id: d.id, offset: offset}]; ok {
				out[cursor+offset] = note
			}
		}
		cursor += d.nights
	}
	return out
}

func TestRandomMutationsKeepNotesWithTheirDestination(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := snapshotOf(t, stop{"A", 2}, stop{"B", 3}, stop{"C", 1})
		m := newNoteModel(s)

		for step := 0; step < 30; step++ {
			var (
				desc string
				err  error
			)

			switch op := rng.Intn(6); {
			case op == 0:
				pos, nights := rng.Intn(len(m.dests)), rng.Intn(4)
				desc = fmt.Sprintf("change nights pos=%d nights=%d", pos, nights)
				s, err = s.ChangeNights(pos, nights)
				m.dropOwner(m.dests[pos].id, nights)
				m.dests[pos].nights = nights

			case op == 1:
				pos := rng.Intn(len(m.dests) + 1)
				skeleton := domain.NewDestination(fmt.Sprintf("D%d", step))
				skeleton.Nights = rng.Intn(3)
				desc = fmt.Sprintf("insert pos=%d nights=%d", pos, skeleton.Nights)
				s, err = s.InsertDestination(pos, skeleton)
				m.dests = append(m.dests[:pos], append([]modelStop{{id: skeleton.ID, nights: skeleton.Nights}}, m.dests[pos:]...)...)

			case op == 2:
				pos := rng.Intn(len(m.dests))
				desc = fmt.Sprintf("delete pos=%d", pos)
				next, delErr := s.DeleteDestination(pos)
				if len(m.dests) == 1 {
					require.ErrorIs(t, delErr, ErrLastDestination, "seed %d step %d", seed, step)
					continue
				}
				s, err = next, delErr
				m.dropOwner(m.dests[pos].id, 0)
				m.dests = append(m.dests[:pos], m.dests[pos+1:]...)

			case op == 3:
				from, to := rng.Intn(len(m.dests)), rng.Intn(len(m.dests))
				desc = fmt.Sprintf("move from=%d to=%d", from, to)
				s, err = s.MoveDestination(from, to)
				moved := m.dests[from]
				m.dests = append(m.dests[:from], m.dests[from+1:]...)
				m.dests = append(m.dests[:to], append([]modelStop{moved}, m.dests[to:]...)...)

			case op == 4 && m.total() > 0:
				day := rng.Intn(m.total())
				note := fmt.Sprintf("n%d-%d", seed, step)
				desc = fmt.Sprintf("set note day=%d", day)
				s, err = s.SetOverlay(domain.OverlayNotes, day, domain.OverlayValue{Note: note})
				m.notes[m.owner(day)] = note

			case op == 5 && m.total() > 0:
				day := rng.Intn(m.total())
				desc = fmt.Sprintf("clear note day=%d", day)
				s, err = s.ClearOverlay(domain.OverlayNotes, day)
				delete(m.notes, m.owner(day))

			default:
				continue
			}
			require.NoError(t, err, "seed %d step %d: %s", seed, step, desc)

			_, err = s.verified("check")
			require.NoError(t, err, "seed %d step %d: %s", seed, step, desc)

			dests := s.Destinations()
			require.Len(t, dests, len(m.dests), "seed %d step %d: %s", seed, step, desc)
			for pos, d := range dests {
				require.Equal(t, pos, d.Position, "seed %d step %d: %s", seed, step, desc)
				require.Equal(t, m.dests[pos].id, d.ID, "seed %d step %d: %s", seed, step, desc)
				require.Equal(t, m.dests[pos].nights, d.Nights, "seed %d step %d: %s", seed, step, desc)
			}
			require.Len(t, s.ProjectDays(), m.total(), "seed %d step %d: %s", seed, step, desc)
			require.Equal(t, m.byDay(), s.Itinerary().Notes, "seed %d step %d: %s", seed, step, desc)
		}
	}
}
