package weather

import (
	"time"
)

// GeoPoint is an approximate location resolved from the caller's IP address.
// City and Timezone are best-effort and may be empty.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}

// GeoCity is a single candidate returned by the geocoding search endpoint.
// Population is zero when the provider does not report one.
type GeoCity struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"countryCode"`
	Admin1      string  `json:"admin1,omitempty"`
	Timezone    string  `json:"timezone"`
	Population  int     `json:"population,omitempty"`
	Elevation   float64 `json:"elevation,omitempty"`
}

// LocalTimeResult is the local wall-clock time at a coordinate, built from the
// provider's naive timestamp and its reported UTC offset.
type LocalTimeResult struct {
	LocalDateTime        time.Time     `json:"localDateTime"`
	Timezone             string        `json:"timezone"` // IANA, e.g. "Europe/Moscow"
	TimezoneAbbreviation string        `json:"timezoneAbbreviation"`
	UTCOffset            time.Duration `json:"utcOffset"`
}

// ForecastModel is one day of forecast (or one current observation),
// normalized to the shape consumed by callers.
type ForecastModel struct {
	Temperature    int    `json:"temperature"`
	MaxTemperature int    `json:"maxTemperature"`
	MinTemperature int    `json:"minTemperature"`
	Time           string `json:"time"`
	Date           string `json:"date"`
	Text           string `json:"text"`
	WeatherImage   string `json:"weatherImage,omitempty"`
}

// CityModel is the aggregated view of one city. ID is the opaque identifier
// assigned by the current-conditions provider; it is stable for a given city
// and joins pinned snapshots with live refreshes.
type CityModel struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Message        string          `json:"message"`
	IsPinned       bool            `json:"isPinned"`
	CurrentWeather ForecastModel   `json:"currentWeather"`
	Forecast       []ForecastModel `json:"forecast,omitempty"`
}

// CurrentConditions is a normalized current-weather observation from the
// conditions provider, including the provider-assigned city identity.
type CurrentConditions struct {
	ID          int
	Name        string
	Latitude    float64
	Longitude   float64
	Temperature float64
	TempMin     float64
	TempMax     float64
	FeelsLike   float64
	Description string
	ObservedAt  time.Time
}
