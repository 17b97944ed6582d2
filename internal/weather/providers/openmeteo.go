package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/imolchanov/sunday/internal/common"
	"github.com/imolchanov/sunday/internal/weather"
)

const (
	openMeteoDefaultURL = "https://api.open-meteo.com/v1/forecast"

	shortDateFormat = "02.01.2006"
	shortTimeFormat = "15:04"
)

// naiveTimeFormats covers the ISO-8601 variants Open-Meteo uses for its
// offset-less local timestamps.
var naiveTimeFormats = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"}

// ImageResolver materializes a local image for a weather-condition text.
// An unmapped text yields an empty path without error.
type ImageResolver interface {
	ImageForText(ctx context.Context, text string) (string, error)
}

// OpenMeteoClient fetches daily forecasts and local-time data from the
// Open-Meteo forecast endpoint.
type OpenMeteoClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	images  ImageResolver
}

// NewOpenMeteoClient constructs an OpenMeteoClient against the production
// endpoint. images may be nil, in which case forecasts carry no imagery.
func NewOpenMeteoClient(client *http.Client, images ImageResolver) *OpenMeteoClient {
	return NewOpenMeteoClientWithURL(client, openMeteoDefaultURL, images)
}

// NewOpenMeteoClientWithURL constructs an OpenMeteoClient pointing at a custom
// base URL (for tests).
func NewOpenMeteoClientWithURL(client *http.Client, baseURL string, images ImageResolver) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				InitialInterval: 500 * time.Millisecond,
			},
		},
		circuit: newBreaker("openmeteo"),
		images:  images,
	}
}

// WeeklyForecast returns one ForecastModel per day, in provider (ascending
// date) order. The daily response is parallel arrays consumed positionally.
func (c *OpenMeteoClient) WeeklyForecast(ctx context.Context, lat, lon float64) ([]weather.ForecastModel, error) {
	u := fmt.Sprintf(
		"%s?latitude=%s&longitude=%s&daily=temperature_2m_max,temperature_2m_min,weathercode&timezone=auto",
		c.baseURL, formatCoord(lat), formatCoord(lon),
	)

	var payload struct {
		Daily struct {
			Time           []string  `json:"time"`
			TemperatureMax []float64 `json:"temperature_2m_max"`
			TemperatureMin []float64 `json:"temperature_2m_min"`
			WeatherCode    []int     `json:"weathercode"`
		} `json:"daily"`
	}
	if err := getJSON(ctx, c.httpCfg, c.circuit, u, &payload); err != nil {
		return nil, err
	}

	d := payload.Daily
	n := len(d.Time)
	if len(d.TemperatureMax) < n {
		n = len(d.TemperatureMax)
	}
	if len(d.TemperatureMin) < n {
		n = len(d.TemperatureMin)
	}
	if len(d.WeatherCode) < n {
		n = len(d.WeatherCode)
	}

	forecasts := make([]weather.ForecastModel, 0, n)
	for i := 0; i < n; i++ {
		day, err := parseNaiveTime(d.Time[i])
		if err != nil {
			return nil, fmt.Errorf("%w: daily time %q", weather.ErrParse, d.Time[i])
		}

		max := common.Round(d.TemperatureMax[i])
		min := common.Round(d.TemperatureMin[i])
		text := weatherDescription(d.WeatherCode[i])

		fm := weather.ForecastModel{
			Temperature:    common.Round(float64(max+min) / 2),
			MaxTemperature: max,
			MinTemperature: min,
			Time:           day.Format(shortTimeFormat),
			Date:           day.Format(shortDateFormat),
			Text:           text,
		}
		if c.images != nil {
			path, err := c.images.ImageForText(ctx, text)
			if err != nil {
				return nil, err
			}
			fm.WeatherImage = path
		}
		forecasts = append(forecasts, fm)
	}
	return forecasts, nil
}

// LocalTime resolves the local wall-clock time at the coordinate. The
// provider reports a naive local timestamp plus a UTC offset in seconds; the
// timestamp is parsed as wall-clock digits and bound to that fixed offset,
// never reinterpreted through another zone.
func (c *OpenMeteoClient) LocalTime(ctx context.Context, lat, lon float64) (weather.LocalTimeResult, error) {
	u := fmt.Sprintf(
		"%s?latitude=%s&longitude=%s&current_weather=true&timezone=auto",
		c.baseURL, formatCoord(lat), formatCoord(lon),
	)

	var payload struct {
		Timezone             string `json:"timezone"`
		TimezoneAbbreviation string `json:"timezone_abbreviation"`
		UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
		CurrentWeather       struct {
			Time string `json:"time"`
		} `json:"current_weather"`
	}
	if err := getJSON(ctx, c.httpCfg, c.circuit, u, &payload); err != nil {
		return weather.LocalTimeResult{}, err
	}

	zone := time.FixedZone(payload.TimezoneAbbreviation, payload.UTCOffsetSeconds)
	local, err := parseNaiveTimeIn(payload.CurrentWeather.Time, zone)
	if err != nil {
		return weather.LocalTimeResult{}, fmt.Errorf("%w: current_weather.time %q", weather.ErrParse, payload.CurrentWeather.Time)
	}

	return weather.LocalTimeResult{
		LocalDateTime:        local,
		Timezone:             payload.Timezone,
		TimezoneAbbreviation: payload.TimezoneAbbreviation,
		UTCOffset:            time.Duration(payload.UTCOffsetSeconds) * time.Second,
	}, nil
}

func parseNaiveTime(s string) (time.Time, error) {
	return parseNaiveTimeIn(s, time.UTC)
}

func parseNaiveTimeIn(s string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range naiveTimeFormats {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// weatherDescription maps Open-Meteo weather codes to condition text.
func weatherDescription(code int) string {
	switch code {
	case 0:
		return "Ясно"
	case 1, 2, 3:
		return "Переменная облачность"
	case 45, 48:
		return "Туман"
	case 51, 53, 55:
		return "Мелкий дождь"
	case 61, 63, 65:
		return "Дождь"
	case 71, 73, 75:
		return "Снег"
	case 80, 81, 82:
		return "Ливень"
	case 95, 96, 99:
		return "Гроза"
	default:
		return "Неизвестно"
	}
}
