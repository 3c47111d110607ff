package services

import (
	"context"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentGeocodes bounds parallel calls to the external geocoder.
const maxConcurrentGeocodes = 5

// resolveDestinations returns destinations in input order, geocoding the ones
// given by address. Lookups run concurrently; the first failure cancels the rest.
func resolveDestinations(
	ctx context.Context,
	geocoder ports.Geocoder,
	inputs []DestinationInput,
) ([]domain.Destination, error) {
	for i, in := range inputs {
		if strings.TrimSpace(in.ID) == "" {
			return nil, fmt.Errorf("destination #%d: id is required: %w", i+1, domain.ErrInvalidInput)
		}
	}

	out := make([]domain.Destination, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGeocodes)

	for i, in := range inputs {
		i, in := i, in
		name := in.Name
		if name == "" {
			name = in.ID
		}

		if in.Location.Point != nil {
			out[i] = domain.Destination{ID: in.ID, Name: name, Coordinates: *in.Location.Point}
			continue
		}

		g.Go(func() error {
			pt, err := resolveLocation(gctx, geocoder, in.Location)
			if err != nil {
				return fmt.Errorf("resolve destination %q: %w", in.ID, err)
			}
			out[i] = domain.Destination{ID: in.ID, Name: name, Coordinates: pt}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func resolveLocation(ctx context.Context, geocoder ports.Geocoder, loc Location) (domain.GeoPoint, error) {
	if loc.Point != nil {
		return *loc.Point, nil
	}

	address := strings.TrimSpace(loc.Address)
	if address == "" {
		return domain.GeoPoint{}, fmt.Errorf("location needs coordinates or an address: %w", domain.ErrInvalidInput)
	}

	if geocoder == nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", address, domain.ErrGeocodingUnavailable)
	}

	pt, err := geocoder.Geocode(ctx, address)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	return pt, nil
}
