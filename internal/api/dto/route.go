package dto

import "school-route-service/internal/domain"

// LocationRequest carries either coordinates or an address to geocode.
// Coordinates win when both are present.
type LocationRequest struct {
	Lat     *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng     *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	Address string   `json:"address" validate:"max=300"`
}

type DestinationRequest struct {
	ID   string `json:"id" validate:"required,max=100"`
	Name string `json:"name" validate:"max=200"`
	LocationRequest
}

type VehicleRequest struct {
	LicensePlate    string  `json:"license_plate" validate:"max=20"`
	FuelConsumption float64 `json:"fuel_consumption" validate:"gte=0"`
}

type FuelRequest struct {
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	AverageConsumption *float64 `json:"average_consumption" validate:"omitempty,gte=0"`
}

type PlanRouteRequest struct {
	Name           string               `json:"name" validate:"max=200"`
	Start          *LocationRequest     `json:"start"`
	StartTime      string               `json:"start_time"`
	Destinations   []DestinationRequest `json:"destinations" validate:"max=200,dive"`
	DestinationIDs []string             `json:"destination_ids" validate:"max=200,dive,required"`
	Vehicle        *VehicleRequest      `json:"vehicle"`
	Fuel           *FuelRequest         `json:"fuel"`
	DwellMinutes   *int                 `json:"dwell_minutes" validate:"omitempty,gte=1,lte=240"`
}

type ListRoutesResponse struct {
	Routes []*domain.OptimizedRoute `json:"routes"`
}
