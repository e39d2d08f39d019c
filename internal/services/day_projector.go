package services

import (
	"time"
	"trip-itinerary-service/internal/domain"
)

// ProjectDays expands the destination sequence into contiguous, dated days.
//
// Each destination contributes Nights days starting where the previous one
// ended; a destination with zero nights contributes nothing and does not
// disturb the indexing of later destinations. Dates advance by calendar day
// from start, so the result carries no clock-time or timezone semantics.
func ProjectDays(dests []domain.Destination, start time.Time) []domain.Day {
	start = truncateToDate(start)
	days := make([]domain.Day, 0, TotalDays(dests))

	cursor := 0
	for pos, d := range dests {
		n := max(d.Nights, 0)
		for offset := 0; offset < n; offset++ {
			days = append(days, domain.Day{
				DayIndex:          cursor + offset,
				Date:              start.AddDate(0, 0, cursor+offset),
				OwnerPosition:     pos,
				OwnerID:           d.ID,
				IsFirstDayOfOwner: offset == 0,
				IsLastDayOfOwner:  offset == n-1,
			})
		}
		cursor += n
	}

	return days
}

// TotalDays is the sum of nights over the sequence.
func TotalDays(dests []domain.Destination) int {
	total := 0
	for _, d := range dests {
		total += max(d.Nights, 0)
	}
	return total
}

// DestinationDayRange returns the half-open day-index range [start, end)
// owned by the destination at position. ok is false when position is out of
// range.
func DestinationDayRange(dests []domain.Destination, position int) (start, end int, ok bool) {
	if position < 0 || position >= len(dests) {
		return 0, 0, false
	}
	for _, d := range dests[:position] {
		start += max(d.Nights, 0)
	}
	return start, start + max(dests[position].Nights, 0), true
}

// ownerOf returns the position of the destination owning dayIndex.
func ownerOf(dests []domain.Destination, dayIndex int) (int, bool) {
	if dayIndex < 0 {
		return 0, false
	}
	cursor := 0
	for pos, d := range dests {
		n := max(d.Nights, 0)
		if dayIndex < cursor+n {
			return pos, true
		}
		cursor += n
	}
	return 0, false
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
