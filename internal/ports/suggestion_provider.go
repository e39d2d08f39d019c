package ports

import (
	"context"
	"trip-itinerary-service/internal/domain"
)

// Contract for search providers returning place names for a destination.
// Only sightseeing and dining kinds are searched.
type SuggestionProvider interface {
	// Return suggested place names for destination, best first.
	Suggest(ctx context.Context, destination string, kind domain.OverlayKind) ([]string, error)
}

// Contract for caching provider results keyed by destination and kind.
type SuggestionCache interface {
	Get(ctx context.Context, destination string, kind domain.OverlayKind) ([]string, bool, error)
	Put(ctx context.Context, destination string, kind domain.OverlayKind, names []string) error
}
