package domain

import (
	"fmt"
	"strings"
)

// OverlayKind names one of the four per-day customization dimensions.
type OverlayKind int

const (
	OverlaySightseeing OverlayKind = iota
	OverlayLodging
	OverlayDining
	OverlayNotes
)

// OverlayKinds lists every kind in a stable order.
var OverlayKinds = []OverlayKind{OverlaySightseeing, OverlayLodging, OverlayDining, OverlayNotes}

func (k OverlayKind) String() string {
	switch k {
	case OverlaySightseeing:
		return "sightseeing"
	case OverlayLodging:
		return "lodging"
	case OverlayDining:
		return "dining"
	case OverlayNotes:
		return "notes"
	default:
		return fmt.Sprintf("overlay(%d)", int(k))
	}
}

// ParseOverlayKind maps a kind name (case-insensitive) back to an OverlayKind.
func ParseOverlayKind(s string) (OverlayKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sightseeing":
		return OverlaySightseeing, nil
	case "lodging":
		return OverlayLodging, nil
	case "dining":
		return OverlayDining, nil
	case "notes", "note":
		return OverlayNotes, nil
	}
	return 0, fmt.Errorf("parse overlay kind: unknown kind %q", s)
}

// Lodging chosen for a day. IsManual marks a user-entered name as opposed
// to one picked from a provider search.
type Lodging struct {
	Name     string
	IsManual bool
}

// OverlayValue carries the value of any overlay kind.
// Items is used by sightseeing and dining, Lodging by lodging and Note by notes.
type OverlayValue struct {
	Items   []string
	Lodging Lodging
	Note    string
}
