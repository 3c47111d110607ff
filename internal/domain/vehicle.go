package domain

// Vehicle used for a route. Fuel consumption is expressed in liters per 100 km.
type Vehicle struct {
	ID              string  `json:"id,omitempty"`
	LicensePlate    string  `json:"license_plate"`
	FuelConsumption float64 `json:"fuel_consumption"`
}

// Caller supplied fuel pricing and the fleet-average consumption (L/100 km).
type FuelSettings struct {
	FuelPrice          float64 `json:"fuel_price"`
	AverageConsumption float64 `json:"average_consumption"`
}

// ConsumptionRate returns the vehicle's own rate when it has one,
// falling back to the fleet average.
func (s FuelSettings) ConsumptionRate(v *Vehicle) float64 {
	if v != nil && v.FuelConsumption > 0 {
		return v.FuelConsumption
	}
	return s.AverageConsumption
}
