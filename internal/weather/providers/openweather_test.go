package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imolchanov/sunday/internal/weather"
)

const openWeatherFixture = `{
	"id": 498817,
	"name": "Санкт-Петербург",
	"dt": 1759690800,
	"coord": {"lat": 59.8944, "lon": 30.2642},
	"main": {"temp": 7.3, "temp_min": 5.1, "temp_max": 8.9, "feels_like": 4.6},
	"weather": [{"description": "пасмурно"}]
}`

func TestByName_ParsesObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "санкт-петербург", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "ru", r.URL.Query().Get("lang"))
		_, _ = w.Write([]byte(openWeatherFixture))
	}))
	defer srv.Close()

	c := NewOpenWeatherClientWithURL(srv.Client(), srv.URL, "test-key", "ru")

	cur, err := c.ByName(context.Background(), "санкт-петербург")
	require.NoError(t, err)

	assert.Equal(t, 498817, cur.ID)
	assert.Equal(t, "Санкт-Петербург", cur.Name)
	assert.Equal(t, 59.8944, cur.Latitude)
	assert.Equal(t, 30.2642, cur.Longitude)
	assert.Equal(t, 4.6, cur.FeelsLike)
	assert.Equal(t, "пасмурно", cur.Description)
}

func TestByID_SendsIDParameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "498817", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(openWeatherFixture))
	}))
	defer srv.Close()

	c := NewOpenWeatherClientWithURL(srv.Client(), srv.URL, "test-key", "ru")

	cur, err := c.ByID(context.Background(), 498817)
	require.NoError(t, err)
	assert.Equal(t, 498817, cur.ID)
}

func TestByName_EmptyResponseIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClientWithURL(srv.Client(), srv.URL, "test-key", "ru")

	_, err := c.ByName(context.Background(), "нигдеград")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrNotFound)
}

func TestByName_MissingAPIKey(t *testing.T) {
	c := NewOpenWeatherClientWithURL(http.DefaultClient, "http://unused.invalid", "", "ru")

	_, err := c.ByName(context.Background(), "москва")
	require.Error(t, err)
}
