package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imolchanov/sunday/internal/pinstore"
	"github.com/imolchanov/sunday/internal/weather"
)

type stubGeoIP struct{}

func (stubGeoIP) CurrentLocation(context.Context) (weather.GeoPoint, error) {
	return weather.GeoPoint{Latitude: 55.75, Longitude: 37.62, City: "Москва"}, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Search(_ context.Context, name, _ string, _ int, _ string) ([]weather.GeoCity, error) {
	if name == "" {
		return []weather.GeoCity{}, nil
	}
	return []weather.GeoCity{{Name: "Москва", Latitude: 55.75, Longitude: 37.62, CountryCode: "RU", Timezone: "Europe/Moscow"}}, nil
}

func (s stubGeocoder) BestMatch(ctx context.Context, name, country, lang string) (*weather.GeoCity, error) {
	cities, _ := s.Search(ctx, name, country, 10, lang)
	if len(cities) == 0 {
		return nil, nil
	}
	return &cities[0], nil
}

type stubForecaster struct{}

func (stubForecaster) WeeklyForecast(context.Context, float64, float64) ([]weather.ForecastModel, error) {
	return []weather.ForecastModel{{Temperature: 5, Text: "Ясно", Date: "05.10.2025"}}, nil
}

func (stubForecaster) LocalTime(context.Context, float64, float64) (weather.LocalTimeResult, error) {
	return weather.LocalTimeResult{Timezone: "Europe/Moscow", TimezoneAbbreviation: "MSK"}, nil
}

type stubConditions struct {
	failIDs map[int]bool
}

func (s stubConditions) ByName(_ context.Context, city string) (weather.CurrentConditions, error) {
	return weather.CurrentConditions{ID: 1, Name: city, Description: "ясно", FeelsLike: 5}, nil
}

func (s stubConditions) ByID(_ context.Context, id int) (weather.CurrentConditions, error) {
	if s.failIDs[id] {
		return weather.CurrentConditions{}, fmt.Errorf("%w: id %d", weather.ErrNetwork, id)
	}
	return weather.CurrentConditions{ID: id, Name: "stub"}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	pins := pinstore.New(filepath.Join(t.TempDir(), "weatherdata.json"))
	svc := weather.NewService(
		stubGeoIP{},
		stubGeocoder{},
		stubForecaster{},
		stubConditions{failIDs: map[int]bool{404: true}},
		pins,
		zap.NewNop(),
	)
	RegisterRoutes(app, svc)
	return app
}

func TestSearchValidation(t *testing.T) {
	app := newTestApp(t)

	// Missing name parameter should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities/search", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Out-of-range count should also return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cities/search?name=моск&count=50", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchReturnsCandidates(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities/search?name=моск", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cities []weather.GeoCity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cities))
	require.Len(t, cities, 1)
	assert.Equal(t, "Москва", cities[0].Name)
}

func TestCurrentWeatherRoute(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var city weather.CityModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&city))
	assert.Equal(t, "Москва", city.Name)
	require.Len(t, city.Forecast, 1)
}

func TestPinLifecycle(t *testing.T) {
	app := newTestApp(t)

	body := strings.NewReader(`{"id": 7, "name": "Смоленск", "message": "Feels like: -3°C. Снег"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pins", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pinned []weather.CityModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pinned))
	require.Len(t, pinned, 1)
	assert.Equal(t, 7, pinned[0].ID)
	assert.True(t, pinned[0].IsPinned)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/pins/7", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pinned))
	assert.Empty(t, pinned)
}

func TestPinValidation(t *testing.T) {
	app := newTestApp(t)

	// Missing id should return 400.
	body := strings.NewReader(`{"name": "Смоленск"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pins", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastRouteErrorMapping(t *testing.T) {
	app := newTestApp(t)

	// Upstream failure surfaces as 502.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities/404/forecast", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// Non-integer id is a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cities/abc/forecast", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusForError(fmt.Errorf("x: %w", weather.ErrNotFound)))
	assert.Equal(t, http.StatusBadGateway, StatusForError(fmt.Errorf("x: %w", weather.ErrNetwork)))
	assert.Equal(t, http.StatusBadGateway, StatusForError(fmt.Errorf("x: %w", weather.ErrParse)))
	assert.Equal(t, http.StatusInternalServerError, StatusForError(fmt.Errorf("x: %w", weather.ErrStorage)))
}
