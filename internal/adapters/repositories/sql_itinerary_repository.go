package repositories

import (
	"context"
	"database/sql"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// Postgres-backed implementation of the ItineraryRepository port, used
// through the pgx database/sql driver.
type SQLItineraryRepository struct {
	store *itineraryStore
}

func NewSQLItineraryRepository(db *sql.DB) *SQLItineraryRepository {
	return &SQLItineraryRepository{store: &itineraryStore{db: db, ph: dollar, name: "postgres"}}
}

func (r *SQLItineraryRepository) LoadItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	return r.store.load(ctx, id)
}

func (r *SQLItineraryRepository) SaveItinerary(ctx context.Context, it domain.Itinerary) error {
	return r.store.save(ctx, it)
}

func (r *SQLItineraryRepository) ListItineraries(ctx context.Context) ([]ports.ItinerarySummary, error) {
	return r.store.list(ctx)
}
