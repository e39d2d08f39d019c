package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/services"

	"github.com/emersion/go-ical"
)

const (
	productID = "-//trip-itinerary-service//Itinerary//EN"
	uidDomain = "itinerary.local"
)

// EncodeICS writes the day-by-day calendar of snap as an iCalendar feed,
// one all-day event per trip day.
func EncodeICS(w io.Writer, snap *services.Snapshot, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")
	if title := snap.Title(); title != "" {
		cal.Props.SetText("X-WR-CALNAME", title)
	}

	dests := snap.Destinations()
	for _, day := range snap.ProjectDays() {
		dest := dests[day.OwnerPosition]

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@%s", snap.ItineraryID(), day.DayIndex, uidDomain))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDate(ical.PropDateTimeStart, day.Date)
		event.Props.SetDate(ical.PropDateTimeEnd, day.Date.AddDate(0, 0, 1))
		event.Props.SetText(ical.PropSummary, summary(dest, day))
		if dest.Name != "" {
			event.Props.SetText(ical.PropLocation, dest.Name)
		}

		desc, err := description(snap, day)
		if err != nil {
			return fmt.Errorf("encode ics: day %d: %w", day.DayIndex, err)
		}
		if desc != "" {
			event.Props.SetText(ical.PropDescription, desc)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return fmt.Errorf("encode ics: itinerary %q has no days", snap.ItineraryID())
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ics: %w", err)
	}
	return nil
}

func summary(dest domain.Destination, day domain.Day) string {
	name := dest.Name
	if name == "" {
		name = "Destination " + fmt.Sprint(day.OwnerPosition+1)
	}

	switch {
	case day.IsFirstDayOfOwner && dest.Nights == 1:
		return name
	case day.IsFirstDayOfOwner:
		return name + " (arrival)"
	case day.IsLastDayOfOwner && dest.TransportToNext != "":
		return name + " (depart by " + dest.TransportToNext + ")"
	default:
		return name
	}
}

func description(snap *services.Snapshot, day domain.Day) (string, error) {
	var lines []string

	lodging, err := snap.Overlay(domain.OverlayLodging, day.DayIndex)
	if err != nil {
		return "", err
	}
	if lodging.Lodging.Name != "" {
		lines = append(lines, "Lodging: "+lodging.Lodging.Name)
	}

	sights, err := snap.Overlay(domain.OverlaySightseeing, day.DayIndex)
	if err != nil {
		return "", err
	}
	if len(sights.Items) > 0 {
		lines = append(lines, "Sightseeing: "+strings.Join(sights.Items, ", "))
	}

	dining, err := snap.Overlay(domain.OverlayDining, day.DayIndex)
	if err != nil {
		return "", err
	}
	if len(dining.Items) > 0 {
		lines = append(lines, "Dining: "+strings.Join(dining.Items, ", "))
	}

	notes, err := snap.Overlay(domain.OverlayNotes, day.DayIndex)
	if err != nil {
		return "", err
	}
	if notes.Note != "" {
		lines = append(lines, "Notes: "+notes.Note)
	}

	return strings.Join(lines, "\n"), nil
}
