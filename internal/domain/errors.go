package domain

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrInvalidInput = errors.New("invalid input")
var ErrInvalidClock = errors.New("invalid clock time, expected HH:MM")

// ErrGeocodingUnavailable is returned when an address must be resolved but no
// geocoder is configured or the geocoding service cannot be reached.
var ErrGeocodingUnavailable = errors.New("geocoding is not available")
