package dto

type DestinationResponse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type ListDestinationsResponse struct {
	Destinations []DestinationResponse `json:"destinations"`
}
