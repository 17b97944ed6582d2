package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/imolchanov/sunday/internal/weather"
)

const (
	defaultSearchCount   = 5
	bestMatchSearchCount = 10
	defaultLanguage      = "ru"

	geocodingDefaultURL = "https://geocoding-api.open-meteo.com/v1/search"
)

// GeocodingClient resolves free-text city names through the Open-Meteo
// geocoding search endpoint.
type GeocodingClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewGeocodingClient constructs a GeocodingClient against the production endpoint.
func NewGeocodingClient(client *http.Client) *GeocodingClient {
	return NewGeocodingClientWithURL(client, geocodingDefaultURL)
}

// NewGeocodingClientWithURL constructs a GeocodingClient pointing at a custom
// base URL (for tests).
func NewGeocodingClientWithURL(client *http.Client, baseURL string) *GeocodingClient {
	return &GeocodingClient{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				InitialInterval: 500 * time.Millisecond,
			},
		},
		circuit: newBreaker("geocoding"),
	}
}

type geocodingResponse struct {
	Results []struct {
		Name        string   `json:"name"`
		Latitude    float64  `json:"latitude"`
		Longitude   float64  `json:"longitude"`
		CountryCode string   `json:"country_code"`
		Admin1      string   `json:"admin1"`
		Timezone    string   `json:"timezone"`
		Population  int      `json:"population"`
		Elevation   *float64 `json:"elevation"`
	} `json:"results"`
}

// Search returns up to count candidates for the given name in provider order.
// A blank name and a "no results" response both yield an empty slice, not an
// error. countryCode is an optional ISO-2 filter.
func (c *GeocodingClient) Search(ctx context.Context, name, countryCode string, count int, language string) ([]weather.GeoCity, error) {
	if strings.TrimSpace(name) == "" {
		return []weather.GeoCity{}, nil
	}
	if count <= 0 {
		count = defaultSearchCount
	}
	if language == "" {
		language = defaultLanguage
	}

	values := url.Values{}
	values.Set("name", name)
	values.Set("count", fmt.Sprintf("%d", count))
	values.Set("language", language)
	if countryCode != "" {
		values.Set("country", countryCode)
	}

	var payload geocodingResponse
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	cities := make([]weather.GeoCity, 0, len(payload.Results))
	for _, r := range payload.Results {
		tz := r.Timezone
		if tz == "" {
			tz = "UTC"
		}
		city := weather.GeoCity{
			Name:        r.Name,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
			Timezone:    tz,
			Population:  r.Population,
		}
		if r.Elevation != nil {
			city.Elevation = *r.Elevation
		}
		cities = append(cities, city)
	}
	return cities, nil
}

// BestMatch requests up to ten candidates and picks the one with the largest
// population, breaking ties by shorter name. Returns nil when nothing matched.
func (c *GeocodingClient) BestMatch(ctx context.Context, name, countryCode, language string) (*weather.GeoCity, error) {
	cities, err := c.Search(ctx, name, countryCode, bestMatchSearchCount, language)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, nil
	}

	sort.SliceStable(cities, func(i, j int) bool {
		if cities[i].Population != cities[j].Population {
			return cities[i].Population > cities[j].Population
		}
		return len(cities[i].Name) < len(cities[j].Name)
	})
	best := cities[0]
	return &best, nil
}
