package repositories

import (
	"database/sql"
	"fmt"
	"trip-itinerary-service/internal/platform/db"
	"trip-itinerary-service/internal/ports"
)

// NewItineraryRepository returns the repository matching the driver conn was
// opened with.
func NewItineraryRepository(driver string, conn *sql.DB) (ports.ItineraryRepository, error) {
	switch driver {
	case db.DriverSQLite:
		return NewSqliteItineraryRepository(conn), nil
	case db.DriverPostgres:
		return NewSQLItineraryRepository(conn), nil
	default:
		return nil, fmt.Errorf("new itinerary repository: unknown driver %q", driver)
	}
}
