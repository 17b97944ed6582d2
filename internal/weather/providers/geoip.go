package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/imolchanov/sunday/internal/weather"
)

const (
	geoipPrimaryURL  = "https://ipapi.co/json/"
	geoipFallbackURL = "https://ipinfo.io/json"
)

// ipProvider is one entry of the ordered IP-geolocation chain. The providers
// disagree on response shape, so each carries its own decoder.
type ipProvider struct {
	name   string
	url    string
	decode func(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, url string) (weather.GeoPoint, error)
}

// GeoIPClient resolves the caller's location from its IP address, trying an
// ordered list of providers and stopping at the first success.
type GeoIPClient struct {
	httpCfg   HTTPClientConfig
	providers []ipProvider
	circuits  []*gobreaker.CircuitBreaker
}

// NewGeoIPClient constructs a GeoIPClient with the production provider chain:
// ipapi.co first, ipinfo.io as the single fallback.
func NewGeoIPClient(client *http.Client) *GeoIPClient {
	return NewGeoIPClientWithURLs(client, geoipPrimaryURL, geoipFallbackURL)
}

// NewGeoIPClientWithURLs constructs a GeoIPClient pointing the chain at custom
// URLs (for tests).
func NewGeoIPClientWithURLs(client *http.Client, primaryURL, fallbackURL string) *GeoIPClient {
	return &GeoIPClient{
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				InitialInterval: 500 * time.Millisecond,
			},
		},
		providers: []ipProvider{
			{name: "ipapi", url: primaryURL, decode: decodeSplitFields},
			{name: "ipinfo", url: fallbackURL, decode: decodeJoinedLoc},
		},
		circuits: []*gobreaker.CircuitBreaker{
			newBreaker("geoip-primary"),
			newBreaker("geoip-fallback"),
		},
	}
}

// CurrentLocation walks the provider chain in order. Any failure, transport or
// parse alike, moves on to the next provider; the last provider's failure is
// the caller's failure.
func (c *GeoIPClient) CurrentLocation(ctx context.Context) (weather.GeoPoint, error) {
	var lastErr error
	for i, p := range c.providers {
		pt, err := p.decode(ctx, c.httpCfg, c.circuits[i], p.url)
		if err == nil {
			return pt, nil
		}
		lastErr = fmt.Errorf("%s: %w", p.name, err)
	}
	return weather.GeoPoint{}, lastErr
}

// decodeSplitFields handles the ipapi.co shape: separate latitude/longitude
// number fields.
func decodeSplitFields(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, url string) (weather.GeoPoint, error) {
	var payload struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		City      string  `json:"city"`
		Timezone  string  `json:"timezone"`
	}
	if err := getJSON(ctx, cfg, cb, url, &payload); err != nil {
		return weather.GeoPoint{}, err
	}
	return weather.GeoPoint{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		City:      payload.City,
		Timezone:  payload.Timezone,
	}, nil
}

// decodeJoinedLoc handles the ipinfo.io shape: a single comma-joined
// "lat,lon" string.
func decodeJoinedLoc(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, url string) (weather.GeoPoint, error) {
	var payload struct {
		Loc      string `json:"loc"`
		City     string `json:"city"`
		Timezone string `json:"timezone"`
	}
	if err := getJSON(ctx, cfg, cb, url, &payload); err != nil {
		return weather.GeoPoint{}, err
	}

	parts := strings.Split(payload.Loc, ",")
	if len(parts) != 2 {
		return weather.GeoPoint{}, fmt.Errorf("%w: unexpected loc value %q", weather.ErrParse, payload.Loc)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return weather.GeoPoint{}, fmt.Errorf("%w: latitude in loc %q", weather.ErrParse, payload.Loc)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return weather.GeoPoint{}, fmt.Errorf("%w: longitude in loc %q", weather.ErrParse, payload.Loc)
	}

	return weather.GeoPoint{
		Latitude:  lat,
		Longitude: lon,
		City:      payload.City,
		Timezone:  payload.Timezone,
	}, nil
}
