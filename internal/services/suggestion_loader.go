package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
	"trip-itinerary-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const DefaultSuggestionDebounce = 300 * time.Millisecond

// suggestedKinds are the overlays a search provider can populate.
var suggestedKinds = []domain.OverlayKind{domain.OverlaySightseeing, domain.OverlayDining}

type suggestionKey struct {
	name string
	kind domain.OverlayKind
}

// SuggestionLoader fills sightseeing and dining days that have neither an
// explicit entry nor a destination default with provider suggestions.
//
// Triggers are debounced. Each load captures the editor ticket before
// querying the provider; if the user navigates away or edits the itinerary
// before the results arrive, the results are dropped.
type SuggestionLoader struct {
	editor   *Editor
	provider ports.SuggestionProvider
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
}

func NewSuggestionLoader(editor *Editor, provider ports.SuggestionProvider, debounce time.Duration) *SuggestionLoader {
	if debounce <= 0 {
		debounce = DefaultSuggestionDebounce
	}
	return &SuggestionLoader{editor: editor, provider: provider, debounce: debounce}
}

// Trigger schedules a load after the debounce window. Repeated triggers
// within the window collapse into one load.
func (l *SuggestionLoader) Trigger(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil && l.timer.Stop() {
		l.wg.Done()
	}

	l.wg.Add(1)
	l.timer = time.AfterFunc(l.debounce, func() {
		defer l.wg.Done()
		if err := l.Load(ctx); err != nil && !errors.Is(err, ErrStaleTicket) {
			log.Printf("op=suggestions.load err=%v", err)
		}
	})
}

// Wait blocks until scheduled and running loads have finished.
func (l *SuggestionLoader) Wait() {
	l.wg.Wait()
}

// Stop cancels a pending load that has not started yet.
func (l *SuggestionLoader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil && l.timer.Stop() {
		l.wg.Done()
	}
	l.timer = nil
}

// Load queries the provider for every destination of the current snapshot
// and applies the results, unless the editor moved on in the meantime.
func (l *SuggestionLoader) Load(ctx context.Context) (err error) {
	defer obs.Time(ctx, "suggestions.Load")(&err)

	snap, ticket := l.editor.Current()
	if snap == nil {
		return ErrNoItinerary
	}

	wanted, targets := l.pending(snap)
	if len(wanted) == 0 {
		return nil
	}

	results, err := l.fetch(ctx, wanted)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}

	entries := distributeSuggestions(snap, targets, results)
	if err := l.editor.BulkReplace(ticket, entries); err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}

	log.Printf("itinerary_id=%s op=suggestions.apply lookups=%d", ticket.ItineraryID, len(results))
	return nil
}

// suggestionTarget is a destination whose unset days of kind get suggestions.
type suggestionTarget struct {
	pos  int
	kind domain.OverlayKind
}

// pending lists the destinations still lacking any value on some day and
// the lookups they need. Destinations sharing a name share one lookup.
func (l *SuggestionLoader) pending(snap *Snapshot) ([]suggestionKey, []suggestionTarget) {
	seen := map[suggestionKey]struct{}{}
	var (
		keys    []suggestionKey
		targets []suggestionTarget
	)

	for pos, d := range snap.dests {
		if d.Name == "" || d.Nights <= 0 {
			continue
		}
		for _, kind := range suggestedKinds {
			if len(snap.seeder.Seed(d, kind).Items) > 0 {
				continue
			}
			if !hasUnsetDay(snap, kind, pos) {
				continue
			}
			targets = append(targets, suggestionTarget{pos: pos, kind: kind})
			k := suggestionKey{name: d.Name, kind: kind}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys, targets
}

func (l *SuggestionLoader) fetch(ctx context.Context, wanted []suggestionKey) (map[suggestionKey][]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	var mu sync.Mutex
	results := make(map[suggestionKey][]string, len(wanted))

	for _, k := range wanted {
		g.Go(func() error {
			names, err := l.provider.Suggest(gctx, k.name, k.kind)
			if err != nil {
				return fmt.Errorf("suggest %s for %q: %w", k.kind, k.name, err)
			}
			mu.Lock()
			results[k] = names
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func hasUnsetDay(snap *Snapshot, kind domain.OverlayKind, pos int) bool {
	start, end, _ := DestinationDayRange(snap.dests, pos)
	for day := start; day < end; day++ {
		if !snap.IsExplicit(kind, day) {
			return true
		}
	}
	return false
}

// distributeSuggestions spreads each target's suggestions over its unset
// days in contiguous chunks and merges them with the explicit entries
// already present. Destinations that are not targets are left alone.
func distributeSuggestions(snap *Snapshot, targets []suggestionTarget, results map[suggestionKey][]string) map[domain.OverlayKind]map[int]domain.OverlayValue {
	out := make(map[domain.OverlayKind]map[int]domain.OverlayValue, len(suggestedKinds))

	for _, kind := range suggestedKinds {
		store := snap.sightseeing
		if kind == domain.OverlayDining {
			store = snap.dining
		}

		merged := make(map[int]domain.OverlayValue, store.Len())
		for day, items := range store.Entries() {
			merged[day] = domain.OverlayValue{Items: items}
		}
		out[kind] = merged
	}

	for _, t := range targets {
		d := snap.dests[t.pos]
		names := domain.UnionTokens(results[suggestionKey{name: d.Name, kind: t.kind}])
		if len(names) == 0 {
			continue
		}
		start, end, _ := DestinationDayRange(snap.dests, t.pos)
		nights := end - start
		if nights <= 0 {
			continue
		}

		merged := out[t.kind]
		// Ceiling division so every suggestion lands on some day.
		chunkSize := (len(names) + nights - 1) / nights
		for offset := 0; offset < nights; offset++ {
			day := start + offset
			if _, ok := merged[day]; ok {
				continue
			}
			lo := offset * chunkSize
			if lo >= len(names) {
				break
			}
			hi := min(lo+chunkSize, len(names))
			merged[day] = domain.OverlayValue{Items: names[lo:hi]}
		}
	}

	return out
}
