package dto

type AddDestinationRequest struct {
	Name     string `json:"name"`
	Nights   *int   `json:"nights"`
	Position *int   `json:"position"`
}

type UpdateDestinationRequest struct {
	Name              *string   `json:"name"`
	AutoSightseeing   *[]string `json:"auto_sightseeing"`
	ManualSightseeing *[]string `json:"manual_sightseeing"`
	DiningAggregate   *[]string `json:"dining"`
	TransportToNext   *string   `json:"transport_to_next"`
	Notes             *string   `json:"notes"`
}

type ChangeNightsRequest struct {
	Nights int `json:"nights"`
}

type MoveDestinationRequest struct {
	To int `json:"to"`
}
