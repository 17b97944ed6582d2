package weather

import "context"

// GeoLocator resolves the caller's approximate location from its IP address.
type GeoLocator interface {
	CurrentLocation(ctx context.Context) (GeoPoint, error)
}

// Geocoder resolves free-text city names to geographic candidates.
type Geocoder interface {
	Search(ctx context.Context, name, countryCode string, count int, language string) ([]GeoCity, error)
	BestMatch(ctx context.Context, name, countryCode, language string) (*GeoCity, error)
}

// Forecaster fetches daily forecasts and local time for coordinates.
type Forecaster interface {
	WeeklyForecast(ctx context.Context, lat, lon float64) ([]ForecastModel, error)
	LocalTime(ctx context.Context, lat, lon float64) (LocalTimeResult, error)
}

// Conditions fetches a current observation, either by free-text city name or
// by the provider-assigned city id.
type Conditions interface {
	ByName(ctx context.Context, city string) (CurrentConditions, error)
	ByID(ctx context.Context, id int) (CurrentConditions, error)
}

// Pins is the contract the file-backed pin store must satisfy.
type Pins interface {
	Load() ([]CityModel, error)
	Pin(city CityModel) error
	Unpin(id int) error
}
