package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo keeps itineraries in memory and counts loads.
type memRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.Itinerary
	loads   int
	saveErr error
}

func newMemRepo(its ...domain.Itinerary) *memRepo {
	r := &memRepo{byID: map[string]domain.Itinerary{}}
	for _, it := range its {
		r.byID[it.ID] = it
	}
	return r
}

func (r *memRepo) LoadItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	it, ok := r.byID[id]
	if !ok {
		return domain.Itinerary{}, ports.ErrItineraryNotFound
	}
	return it, nil
}

func (r *memRepo) SaveItinerary(ctx context.Context, it domain.Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.byID[it.ID] = it
	return nil
}

func (r *memRepo) ListItineraries(ctx context.Context) ([]ports.ItinerarySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.ItinerarySummary, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, ports.ItinerarySummary{ID: it.ID, Title: it.Title, DestinationCount: len(it.Destinations)})
	}
	return out, nil
}

func TestItineraryServiceCreateSavesAndOpens(t *testing.T) {
	repo := newMemRepo()
	svc := NewItineraryService(repo, NewEditor(), nil)

	snap, err := svc.Create(context.Background(), " Italy ", tripStart, " Rome ")
	require.NoError(t, err)

	assert.Equal(t, "Italy", snap.Title())
	d, ok := snap.Destination(0)
	require.True(t, ok)
	assert.Equal(t, "Rome", d.Name)
	assert.Equal(t, 1, d.Nights)

	stored, ok := repo.byID[snap.ItineraryID()]
	require.True(t, ok)
	assert.Equal(t, "Italy", stored.Title)
}

func TestItineraryServiceOpenUnknown(t *testing.T) {
	svc := NewItineraryService(newMemRepo(), NewEditor(), nil)

	_, err := svc.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrItineraryNotFound)

	_, err = svc.Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestItineraryServiceFailedOpenKeepsUnsavedEdits(t *testing.T) {
	it := itineraryOf(stop{"Rome", 2})
	svc := NewItineraryService(newMemRepo(it), NewEditor(), nil)
	ctx := context.Background()

	_, err := svc.Open(ctx, it.ID)
	require.NoError(t, err)
	edited, err := svc.Editor.ChangeNights(0, 5)
	require.NoError(t, err)

	_, err = svc.Open(ctx, "rome-typo")
	assert.ErrorIs(t, err, ports.ErrItineraryNotFound)

	assert.Same(t, edited, svc.Editor.Snapshot())
	assert.Equal(t, it.ID, svc.Editor.Ticket().ItineraryID)

	snap, err := svc.Ensure(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.TotalDays())
}

func TestItineraryServiceEnsureReusesOpenItinerary(t *testing.T) {
	a := itineraryOf(stop{"Rome", 2})
	b := itineraryOf(stop{"Paris", 1})
	repo := newMemRepo(a, b)
	svc := NewItineraryService(repo, NewEditor(), nil)
	ctx := context.Background()

	_, err := svc.Ensure(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.Ensure(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)

	snap, err := svc.Ensure(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, snap.ItineraryID())
	assert.Equal(t, 2, repo.loads)
}

func TestItineraryServiceSaveFoldsAggregates(t *testing.T) {
	it := itineraryOf(stop{"Rome", 2})
	repo := newMemRepo(it)
	svc := NewItineraryService(repo, NewEditor(), nil)
	ctx := context.Background()

	_, err := svc.Open(ctx, it.ID)
	require.NoError(t, err)
	_, err = svc.Editor.SetOverlay(domain.OverlayDining, 1, domain.OverlayValue{Items: []string{"Roscioli"}})
	require.NoError(t, err)

	saved, err := svc.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Roscioli"}, saved.Destinations[0].DiningAggregate)
	assert.Equal(t, []string{"Roscioli"}, repo.byID[it.ID].Destinations[0].DiningAggregate)
}

func TestItineraryServiceSaveFailureKeepsState(t *testing.T) {
	it := itineraryOf(stop{"Rome", 2})
	repo := newMemRepo(it)
	svc := NewItineraryService(repo, NewEditor(), nil)
	ctx := context.Background()

	_, err := svc.Open(ctx, it.ID)
	require.NoError(t, err)
	before, err := svc.Editor.ChangeNights(0, 4)
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	_, err = svc.Save(ctx)
	assert.ErrorContains(t, err, "disk full")
	assert.Same(t, before, svc.Editor.Snapshot())

	repo.saveErr = nil
	saved, err := svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Destinations[0].Nights)
}

func TestItineraryServiceSaveSnapshotIgnoresLaterOpen(t *testing.T) {
	a := itineraryOf(stop{"Rome", 2})
	b := itineraryOf(stop{"Paris", 1})
	repo := newMemRepo(a, b)
	svc := NewItineraryService(repo, NewEditor(), nil)
	ctx := context.Background()

	snapA, err := svc.Ensure(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.Open(ctx, b.ID)
	require.NoError(t, err)

	saved, err := svc.SaveSnapshot(ctx, snapA)
	require.NoError(t, err)
	assert.Equal(t, a.ID, saved.ID)
	assert.Equal(t, "Paris", repo.byID[b.ID].Destinations[0].Name)
}

func TestItineraryServiceSaveWithoutItinerary(t *testing.T) {
	svc := NewItineraryService(newMemRepo(), NewEditor(), nil)

	_, err := svc.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoItinerary)
}

func TestItineraryServiceOpenTriggersSuggestions(t *testing.T) {
	it := itineraryOf(stop{"Rome", 2}, stop{"Venice", 1})
	it.Destinations[1].DiningAggregate = []string{"Antiche Carampane"}
	repo := newMemRepo(it)
	editor := NewEditor()
	loader := NewSuggestionLoader(editor, romeVeniceProvider(), 5*time.Millisecond)
	svc := NewItineraryService(repo, editor, loader)

	_, err := svc.Open(context.Background(), it.ID)
	require.NoError(t, err)
	loader.Wait()

	assert.Len(t, editor.Snapshot().Itinerary().Sightseeing, 3)
}
