package domain

import "time"

// Represents one calendar day of a trip.
// Days are derived from the destination sequence and never persisted.
type Day struct {
	DayIndex          int
	Date              time.Time
	OwnerPosition     int
	OwnerID           string
	IsFirstDayOfOwner bool
	IsLastDayOfOwner  bool
}
