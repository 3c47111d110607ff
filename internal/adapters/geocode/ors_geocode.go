package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
	"school-route-service/internal/ports"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultCountry = "TR"
)

// ORSGeocoder implements ports.Geocoder using the OpenRouteService
// /geocode/search endpoint. Results are cached by normalized address when a
// cache is configured. Safe for concurrent use.
type ORSGeocoder struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	country     string
	cache       ports.GeocodeCache
	maxAttempts int
	backoff     time.Duration
}

type Option func(*ORSGeocoder)

func WithBaseURL(u string) Option {
	return func(o *ORSGeocoder) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithCountry(c string) Option {
	return func(o *ORSGeocoder) { o.country = c }
}

func WithCache(c ports.GeocodeCache) Option {
	return func(o *ORSGeocoder) { o.cache = c }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *ORSGeocoder) { o.session = c }
}

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(o *ORSGeocoder) {
		o.maxAttempts = maxAttempts
		o.backoff = backoff
	}
}

func NewORSGeocoder(apiKey string, opts ...Option) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	g := &ORSGeocoder{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		country:     DefaultCountry,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}

	return g, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.GeoPoint{}, fmt.Errorf("geocode: address must be non-empty: %w", domain.ErrInvalidInput)
	}

	if o.cache != nil {
		hits, err := o.cache.GetMany(ctx, []string{norm})
		if err != nil {
			zap.L().Warn("geocode cache read failed", zap.String("address", norm), zap.Error(err))
		} else if pt, ok := hits[norm]; ok {
			return pt, nil
		}
	}

	pt, err := o.search(ctx, norm)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	if o.cache != nil {
		if err := o.cache.PutMany(ctx, map[string]domain.GeoPoint{norm: pt}); err != nil {
			zap.L().Warn("geocode cache write failed", zap.String("address", norm), zap.Error(err))
		}
	}

	return pt, nil
}

// search resolves one normalized address. Any failure to reach the service
// is reported as ErrGeocodingUnavailable; an empty result is ErrNotFound.
func (o *ORSGeocoder) search(ctx context.Context, norm string) (domain.GeoPoint, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %v: %w", norm, err, domain.ErrGeocodingUnavailable)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode geocode response: %v: %w", err, domain.ErrGeocodingUnavailable)
	}

	if len(decoded.Features) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("no geocode results for %q: %w", norm, domain.ErrNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("invalid coordinate format for %q: %w", norm, domain.ErrGeocodingUnavailable)
	}

	// GeoJSON order is [lon, lat].
	return domain.GeoPoint{Lat: coords[1], Lng: coords[0]}, nil
}
