package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
	"trip-itinerary-service/internal/ports"
)

// ItineraryService runs the single active editing session: it loads an
// itinerary into the editor, hands edits to it and writes the reconciled
// state back on save.
type ItineraryService struct {
	Repo   ports.ItineraryRepository
	Editor *Editor
	Loader *SuggestionLoader
}

func NewItineraryService(repo ports.ItineraryRepository, editor *Editor, loader *SuggestionLoader) *ItineraryService {
	return &ItineraryService{Repo: repo, Editor: editor, Loader: loader}
}

// Open loads itinerary id into the editor, superseding whatever was open.
// If another Open starts before this one's read completes, this one's
// result is discarded.
func (s *ItineraryService) Open(ctx context.Context, id string) (_ *Snapshot, err error) {
	defer obs.Time(ctx, "itinerary.Open")(&err)

	if strings.TrimSpace(id) == "" {
		return nil, errors.New("open itinerary: id must not be empty")
	}

	ticket := s.Editor.Begin(id)

	it, err := s.Repo.LoadItinerary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open itinerary: load %q: %w", id, err)
	}

	if err := s.Editor.Install(ticket, it); err != nil {
		return nil, fmt.Errorf("open itinerary: %w", err)
	}

	s.refreshSuggestions(ctx)
	return s.Editor.Snapshot(), nil
}

// Ensure returns the open snapshot of id, opening it first when the editor
// holds a different itinerary.
func (s *ItineraryService) Ensure(ctx context.Context, id string) (*Snapshot, error) {
	if snap := s.Editor.Snapshot(); snap != nil && snap.ItineraryID() == id {
		return snap, nil
	}
	return s.Open(ctx, id)
}

// Create starts a new itinerary holding one destination, saves it and makes
// it the open one.
func (s *ItineraryService) Create(ctx context.Context, title string, start time.Time, firstDestination string) (_ *Snapshot, err error) {
	defer obs.Time(ctx, "itinerary.Create")(&err)

	it := domain.NewItinerary(strings.TrimSpace(title), start)
	it.Destinations[0].Name = strings.TrimSpace(firstDestination)

	ticket := s.Editor.Begin(it.ID)
	if err := s.Editor.Install(ticket, it); err != nil {
		return nil, fmt.Errorf("create itinerary: %w", err)
	}

	if _, err := s.Save(ctx); err != nil {
		return nil, fmt.Errorf("create itinerary: %w", err)
	}

	s.refreshSuggestions(ctx)
	return s.Editor.Snapshot(), nil
}

// Save folds the per-day overlays into destination aggregates and replaces
// the stored itinerary. A failed save leaves the in-memory state as it is,
// so retrying is safe.
func (s *ItineraryService) Save(ctx context.Context) (domain.Itinerary, error) {
	snap := s.Editor.Snapshot()
	if snap == nil {
		return domain.Itinerary{}, fmt.Errorf("save itinerary: %w", ErrNoItinerary)
	}
	return s.SaveSnapshot(ctx, snap)
}

// SaveSnapshot folds and persists snap, which need not be the open one.
func (s *ItineraryService) SaveSnapshot(ctx context.Context, snap *Snapshot) (_ domain.Itinerary, err error) {
	defer obs.Time(ctx, "itinerary.Save")(&err)

	it := FoldForSave(snap)
	if err := s.Repo.SaveItinerary(ctx, it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("save itinerary %q: %w", it.ID, err)
	}

	return it, nil
}

// Edited schedules a suggestion refresh after a structural edit.
func (s *ItineraryService) Edited(ctx context.Context) {
	s.refreshSuggestions(ctx)
}

func (s *ItineraryService) refreshSuggestions(ctx context.Context) {
	if s.Loader == nil {
		return
	}
	// Loads outlive the request that triggered them.
	s.Loader.Trigger(context.WithoutCancel(ctx))
}
