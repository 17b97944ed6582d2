package weather

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/imolchanov/sunday/internal/common"
)

const (
	shortDateFormat = "02.01.2006"
	shortTimeFormat = "15:04"
)

// popularCityNames is the fixed catalogue resolved by PopularCities, in
// presentation order.
var popularCityNames = []string{
	"новороссийск",
	"ярославль",
	"сочи",
	"краснодар",
	"тюмень",
	"санкт-петербург",
	"казань",
	"севастополь",
	"смоленск",
	"москва",
}

// Service is the aggregating facade over geocoding, forecast retrieval, image
// resolution and pin persistence. It owns no durable state itself; everything
// persistent lives behind the Pins store and the image cache.
type Service struct {
	geoip      GeoLocator
	geocoder   Geocoder
	forecast   Forecaster
	conditions Conditions
	pins       Pins
	log        *zap.Logger
}

// NewService creates a Service. All collaborators are passed in explicitly;
// there is no ambient lookup.
func NewService(
	geoip GeoLocator,
	geocoder Geocoder,
	forecast Forecaster,
	conditions Conditions,
	pins Pins,
	log *zap.Logger,
) *Service {
	return &Service{
		geoip:      geoip,
		geocoder:   geocoder,
		forecast:   forecast,
		conditions: conditions,
		pins:       pins,
		log:        log,
	}
}

// CurrentCityWeather resolves the caller's location by IP and attaches the
// weekly forecast. The city name comes from the geolocation, not from the
// forecast provider.
func (s *Service) CurrentCityWeather(ctx context.Context) (CityModel, error) {
	pt, err := s.geoip.CurrentLocation(ctx)
	if err != nil {
		return CityModel{}, fmt.Errorf("resolving current location: %w", err)
	}

	forecast, err := s.forecast.WeeklyForecast(ctx, pt.Latitude, pt.Longitude)
	if err != nil {
		return CityModel{}, fmt.Errorf("forecast for current location: %w", err)
	}

	city := CityModel{
		Name:     pt.City,
		Forecast: forecast,
	}
	if len(forecast) > 0 {
		city.CurrentWeather = forecast[0]
	}
	return city, nil
}

// CityWeather refreshes the weekly forecast for a previously known city by
// its provider id, without re-running geocoding.
func (s *Service) CityWeather(ctx context.Context, cityID int) ([]ForecastModel, error) {
	cur, err := s.conditions.ByID(ctx, cityID)
	if err != nil {
		return nil, fmt.Errorf("resolving city %d: %w", cityID, err)
	}
	return s.forecast.WeeklyForecast(ctx, cur.Latitude, cur.Longitude)
}

// CityByName resolves the current observation for a named city.
func (s *Service) CityByName(ctx context.Context, name string) (CityModel, error) {
	cur, err := s.conditions.ByName(ctx, name)
	if err != nil {
		return CityModel{}, fmt.Errorf("resolving city %q: %w", name, err)
	}
	return buildCityModel(cur), nil
}

// PopularCities resolves the fixed catalogue. Cities resolve independently
// and in parallel; one city's failure is logged and its slot dropped, the
// rest still resolve. Results keep catalogue order.
func (s *Service) PopularCities(ctx context.Context) ([]CityModel, error) {
	slots := make([]*CityModel, len(popularCityNames))

	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range popularCityNames {
		i, name := i, name
		g.Go(func() error {
			cur, err := s.conditions.ByName(gCtx, name)
			if err != nil {
				s.log.Warn("popular city lookup failed", zap.String("city", name), zap.Error(err))
				return nil
			}
			city := buildCityModel(cur)
			slots[i] = &city
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cities := make([]CityModel, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			cities = append(cities, *c)
		}
	}
	return cities, nil
}

// SearchCities delegates to the geocoder.
func (s *Service) SearchCities(ctx context.Context, name, countryCode string, count int, language string) ([]GeoCity, error) {
	return s.geocoder.Search(ctx, name, countryCode, count, language)
}

// BestMatch delegates to the geocoder.
func (s *Service) BestMatch(ctx context.Context, name, countryCode, language string) (*GeoCity, error) {
	return s.geocoder.BestMatch(ctx, name, countryCode, language)
}

// LocalTime delegates to the forecast provider.
func (s *Service) LocalTime(ctx context.Context, lat, lon float64) (LocalTimeResult, error) {
	return s.forecast.LocalTime(ctx, lat, lon)
}

// Pin persists the city at the front of the pin list.
func (s *Service) Pin(city CityModel) error {
	city.IsPinned = true
	return s.pins.Pin(city)
}

// Unpin removes the city with the given id from the pin list.
func (s *Service) Unpin(id int) error {
	return s.pins.Unpin(id)
}

// PinnedCities returns the pinned cities in stored order, each refreshed with
// a live weekly forecast. A refresh failure keeps the stored snapshot for
// that city rather than failing the whole call.
func (s *Service) PinnedCities(ctx context.Context) ([]CityModel, error) {
	pinned, err := s.pins.Load()
	if err != nil {
		return nil, err
	}

	for i := range pinned {
		forecast, err := s.CityWeather(ctx, pinned[i].ID)
		if err != nil {
			s.log.Warn("pinned city refresh failed",
				zap.Int("id", pinned[i].ID),
				zap.String("city", pinned[i].Name),
				zap.Error(err))
			continue
		}
		pinned[i].Forecast = forecast
		if len(forecast) > 0 {
			pinned[i].CurrentWeather = forecast[0]
		}
		pinned[i].IsPinned = true
	}
	return pinned, nil
}

// buildCityModel shapes a current observation into the catalogue city view.
func buildCityModel(cur CurrentConditions) CityModel {
	observed := cur.ObservedAt.UTC()
	return CityModel{
		ID:   cur.ID,
		Name: cur.Name,
		Message: fmt.Sprintf("Feels like: %d°C. %s",
			common.Round(cur.FeelsLike), cur.Description),
		CurrentWeather: ForecastModel{
			Temperature:    common.Round(cur.Temperature),
			MaxTemperature: common.Round(cur.TempMax),
			MinTemperature: common.Round(cur.TempMin),
			Time:           observed.Format(shortTimeFormat),
			Date:           observed.Format(shortDateFormat),
			Text:           cur.Description,
		},
	}
}
