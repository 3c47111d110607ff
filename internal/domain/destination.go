package domain

// Represents an externally supplied stop to visit.
// Destinations are read-only input to route construction; the caller owns them
// and is responsible for resolving valid coordinates beforehand.
type Destination struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Coordinates GeoPoint `json:"coordinates"`
}
