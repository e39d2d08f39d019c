package repositories

import (
	"context"
	"database/sql"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// SQLite-backed implementation of the ItineraryRepository port.
type SqliteItineraryRepository struct {
	store *itineraryStore
}

func NewSqliteItineraryRepository(db *sql.DB) *SqliteItineraryRepository {
	return &SqliteItineraryRepository{store: &itineraryStore{db: db, ph: questionMark, name: "sqlite"}}
}

func (r *SqliteItineraryRepository) LoadItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	return r.store.load(ctx, id)
}

func (r *SqliteItineraryRepository) SaveItinerary(ctx context.Context, it domain.Itinerary) error {
	return r.store.save(ctx, it)
}

func (r *SqliteItineraryRepository) ListItineraries(ctx context.Context) ([]ports.ItinerarySummary, error) {
	return r.store.list(ctx)
}
