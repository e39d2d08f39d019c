package dto

type LodgingBody struct {
	Name     string `json:"name"`
	IsManual bool   `json:"is_manual"`
}

// OverlayBody carries one overlay value; which field is used depends on the kind.
type OverlayBody struct {
	Items   []string     `json:"items,omitempty"`
	Lodging *LodgingBody `json:"lodging,omitempty"`
	Note    string       `json:"note,omitempty"`
}

type OverlayResponse struct {
	DayIndex int         `json:"day_index"`
	Kind     string      `json:"kind"`
	Explicit bool        `json:"explicit"`
	Value    OverlayBody `json:"value"`
}

type DayResponse struct {
	DayIndex          int         `json:"day_index"`
	Date              string      `json:"date"`
	DestinationID     string      `json:"destination_id"`
	OwnerPosition     int         `json:"owner_position"`
	IsFirstDayOfOwner bool        `json:"is_first_day_of_owner"`
	IsLastDayOfOwner  bool        `json:"is_last_day_of_owner"`
	Sightseeing       []string    `json:"sightseeing"`
	Lodging           LodgingBody `json:"lodging"`
	Dining            []string    `json:"dining"`
	Note              string      `json:"note"`
}

type ListDaysResponse struct {
	Days []DayResponse `json:"days"`
}

type DayRangeResponse struct {
	Position int `json:"position"`
	Start    int `json:"start"`
	End      int `json:"end"`
}
