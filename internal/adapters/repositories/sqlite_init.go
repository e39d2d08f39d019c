package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// Initialize the database schema. The DDL is shared by SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createItinerariesQuery := `
	CREATE TABLE IF NOT EXISTS itineraries (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		start_date TEXT NOT NULL
	);
	`

	createDestinationsQuery := `
	CREATE TABLE IF NOT EXISTS destinations (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		destination_id TEXT NOT NULL,
		name TEXT NOT NULL,
		nights INTEGER NOT NULL CHECK (nights >= 0),
		auto_sightseeing TEXT NOT NULL DEFAULT '',
		manual_sightseeing TEXT NOT NULL DEFAULT '',
		lodging_name TEXT NOT NULL DEFAULT '',
		lodging_is_manual BOOLEAN NOT NULL DEFAULT FALSE,
		dining TEXT NOT NULL DEFAULT '',
		transport_to_next TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (itinerary_id, seq)
	);
	`

	createSightseeingQuery := `
	CREATE TABLE IF NOT EXISTS day_sightseeing (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL,
		items TEXT NOT NULL,
		PRIMARY KEY (itinerary_id, day_index)
	);
	`

	createLodgingQuery := `
	CREATE TABLE IF NOT EXISTS day_lodging (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL,
		name TEXT NOT NULL,
		is_manual BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (itinerary_id, day_index)
	);
	`

	createDiningQuery := `
	CREATE TABLE IF NOT EXISTS day_dining (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL,
		items TEXT NOT NULL,
		PRIMARY KEY (itinerary_id, day_index)
	);
	`

	createNotesQuery := `
	CREATE TABLE IF NOT EXISTS day_notes (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL,
		note TEXT NOT NULL,
		PRIMARY KEY (itinerary_id, day_index)
	);
	`

	createSuggestionCacheQuery := `
	CREATE TABLE IF NOT EXISTS suggestion_cache (
		destination TEXT NOT NULL,
		kind TEXT NOT NULL,
		names TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (destination, kind)
	);
	`

	statements := []string{
		createItinerariesQuery,
		createDestinationsQuery,
		createSightseeingQuery,
		createLodgingQuery,
		createDiningQuery,
		createNotesQuery,
		createSuggestionCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DestinationSeed struct {
	Name              string `json:"name"`
	Nights            int    `json:"nights"`
	AutoSightseeing   string `json:"auto_sightseeing"`
	ManualSightseeing string `json:"manual_sightseeing"`
	Lodging           string `json:"lodging"`
	Dining            string `json:"dining"`
	TransportToNext   string `json:"transport_to_next"`
	Notes             string `json:"notes"`
}

type ItinerarySeed struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	StartDate    string            `json:"start_date"`
	Destinations []DestinationSeed `json:"destinations"`
}

// Populate the database with itineraries from a JSON file.
// Seeded itineraries carry no per-day overlays.
func SeedFromJSON(ctx context.Context, repo ports.ItineraryRepository, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed itineraries: read %q: %w", jsonPath, err)
	}

	var data []ItinerarySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed itineraries: parse json: %w", err)
	}

	for i, item := range data {
		it, err := item.toItinerary()
		if err != nil {
			return fmt.Errorf("seed itineraries: item at index %d: %w", i+1, err)
		}
		if err := repo.SaveItinerary(ctx, it); err != nil {
			return fmt.Errorf("seed itineraries: save id=%s: %w", it.ID, err)
		}
	}

	return nil
}

func (s ItinerarySeed) toItinerary() (domain.Itinerary, error) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return domain.Itinerary{}, errors.New("id cannot be empty")
	}

	start, err := time.Parse(dateLayout, s.StartDate)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("parse start_date %q: %w", s.StartDate, err)
	}

	if len(s.Destinations) == 0 {
		return domain.Itinerary{}, errors.New("destinations cannot be empty")
	}

	it := domain.NewItinerary(strings.TrimSpace(s.Title), start)
	it.ID = id
	it.Destinations = it.Destinations[:0]
	for i, d := range s.Destinations {
		if d.Nights < 0 {
			return domain.Itinerary{}, fmt.Errorf("destination %d: nights must not be negative", i+1)
		}
		dest := domain.NewDestination(strings.TrimSpace(d.Name))
		dest.Position = i
		dest.Nights = d.Nights
		dest.AutoSightseeing = domain.SplitAggregate(d.AutoSightseeing)
		dest.ManualSightseeing = domain.SplitAggregate(d.ManualSightseeing)
		dest.LodgingName = strings.TrimSpace(d.Lodging)
		dest.DiningAggregate = domain.SplitAggregate(d.Dining)
		dest.TransportToNext = d.TransportToNext
		dest.Notes = d.Notes
		it.Destinations = append(it.Destinations, dest)
	}

	return it, nil
}
