package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/imolchanov/sunday/internal/weather"
)

const openWeatherDefaultURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherClient fetches current observations from OpenWeatherMap. It is
// the source of the opaque city id used to join pinned snapshots with live
// refreshes.
type OpenWeatherClient struct {
	apiKey  string
	lang    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient constructs an OpenWeatherClient against the production
// endpoint.
func NewOpenWeatherClient(client *http.Client, apiKey, lang string) *OpenWeatherClient {
	return NewOpenWeatherClientWithURL(client, openWeatherDefaultURL, apiKey, lang)
}

// NewOpenWeatherClientWithURL constructs an OpenWeatherClient pointing at a
// custom base URL (for tests).
func NewOpenWeatherClientWithURL(client *http.Client, baseURL, apiKey, lang string) *OpenWeatherClient {
	if lang == "" {
		lang = defaultLanguage
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		lang:    lang,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				InitialInterval: 500 * time.Millisecond,
			},
		},
		circuit: newBreaker("openweather"),
	}
}

type openWeatherResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// ByName fetches the current observation for a free-text city name.
func (c *OpenWeatherClient) ByName(ctx context.Context, city string) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("q", city)
	return c.fetch(ctx, values)
}

// ByID fetches the current observation for a provider-assigned city id.
func (c *OpenWeatherClient) ByID(ctx context.Context, id int) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("id", fmt.Sprintf("%d", id))
	return c.fetch(ctx, values)
}

func (c *OpenWeatherClient) fetch(ctx context.Context, values url.Values) (weather.CurrentConditions, error) {
	if c.apiKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("openweather api key is not configured")
	}

	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	values.Set("lang", c.lang)

	var payload openWeatherResponse
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	if payload.ID == 0 {
		return weather.CurrentConditions{}, fmt.Errorf("%w: no city in response", weather.ErrNotFound)
	}

	description := ""
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
	}

	return weather.CurrentConditions{
		ID:          payload.ID,
		Name:        payload.Name,
		Latitude:    payload.Coord.Lat,
		Longitude:   payload.Coord.Lon,
		Temperature: payload.Main.Temp,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		FeelsLike:   payload.Main.FeelsLike,
		Description: description,
		ObservedAt:  time.Unix(payload.Dt, 0).UTC(),
	}, nil
}
