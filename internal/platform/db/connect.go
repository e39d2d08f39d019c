package db

import (
	"database/sql"
	"fmt"
)

// Connect opens the database selected by driver: a SQLite file at dbPath or
// the Postgres server at databaseURL.
func Connect(driver, dbPath, databaseURL string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(dbPath)
	case DriverPostgres:
		return Open(databaseURL)
	default:
		return nil, fmt.Errorf("openDB: unknown driver %q", driver)
	}
}
