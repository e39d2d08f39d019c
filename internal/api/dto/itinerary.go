package dto

type CreateItineraryRequest struct {
	Title            string `json:"title"`
	StartDate        string `json:"start_date"`
	FirstDestination string `json:"first_destination"`
}

type ItinerarySummaryResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	DestinationCount int    `json:"destination_count"`
}

type ListItinerariesResponse struct {
	Itineraries []ItinerarySummaryResponse `json:"itineraries"`
}

type DestinationResponse struct {
	ID                string   `json:"id"`
	Position          int      `json:"position"`
	Name              string   `json:"name"`
	Nights            int      `json:"nights"`
	FirstDay          int      `json:"first_day"`
	EndDay            int      `json:"end_day"`
	AutoSightseeing   []string `json:"auto_sightseeing"`
	ManualSightseeing []string `json:"manual_sightseeing"`
	LodgingName       string   `json:"lodging_name"`
	LodgingIsManual   bool     `json:"lodging_is_manual"`
	DiningAggregate   []string `json:"dining"`
	TransportToNext   string   `json:"transport_to_next"`
	Notes             string   `json:"notes"`
}

type ItineraryResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	StartDate    string                `json:"start_date"`
	TotalDays    int                   `json:"total_days"`
	Destinations []DestinationResponse `json:"destinations"`
}
