package services

// FuelEstimate holds liters consumed and the money spent on them,
// each rounded to two decimals.
type FuelEstimate struct {
	ConsumptionLiters float64
	Cost              float64
}

// EstimateFuel converts a distance into fuel use.
//
//   - consumption = distance / 100 * rate (L/100 km)
//   - cost = consumption * price per liter
//
// Inputs are not validated; NaN or negative values propagate.
func EstimateFuel(totalDistanceKm, ratePer100Km, pricePerLiter float64) FuelEstimate {
	consumption := totalDistanceKm / 100 * ratePer100Km
	cost := consumption * pricePerLiter

	return FuelEstimate{
		ConsumptionLiters: round2(consumption),
		Cost:              round2(cost),
	}
}
