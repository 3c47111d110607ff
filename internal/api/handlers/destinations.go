package handlers

import (
	"net/http"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/ports"
)

// DestinationHandler exposes the read-only destination catalog.
type DestinationHandler struct {
	Repo ports.DestinationRepository
}

func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.Repo.ListDestinations(r.Context())
	if err != nil {
		writeServiceError(w, r, "list destinations", err)
		return
	}

	res := dto.ListDestinationsResponse{
		Destinations: make([]dto.DestinationResponse, 0, len(destinations)),
	}
	for _, d := range destinations {
		res.Destinations = append(res.Destinations, dto.DestinationResponse{
			ID:   d.ID,
			Name: d.Name,
			Lat:  d.Coordinates.Lat,
			Lng:  d.Coordinates.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
