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

func TestCurrentLocation_PrimarySucceeds(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude": 55.7558, "longitude": 37.6173, "city": "Moscow", "timezone": "Europe/Moscow"}`))
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("fallback must not be called when the primary succeeds")
	}))
	defer fallback.Close()

	c := NewGeoIPClientWithURLs(primary.Client(), primary.URL, fallback.URL)

	pt, err := c.CurrentLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 55.7558, pt.Latitude)
	assert.Equal(t, 37.6173, pt.Longitude)
	assert.Equal(t, "Moscow", pt.City)
	assert.Equal(t, "Europe/Moscow", pt.Timezone)
}

func TestCurrentLocation_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"loc": "48.8566,2.3522", "city": "Paris", "timezone": "Europe/Paris"}`))
	}))
	defer fallback.Close()

	c := NewGeoIPClientWithURLs(primary.Client(), primary.URL, fallback.URL)

	pt, err := c.CurrentLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 48.8566, pt.Latitude)
	assert.Equal(t, 2.3522, pt.Longitude)
	assert.Equal(t, "Paris", pt.City)
}

func TestCurrentLocation_FallsBackOnMalformedPrimary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"loc": "59.93,30.33"}`))
	}))
	defer fallback.Close()

	c := NewGeoIPClientWithURLs(primary.Client(), primary.URL, fallback.URL)

	pt, err := c.CurrentLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 59.93, pt.Latitude)
	assert.Equal(t, 30.33, pt.Longitude)
}

func TestCurrentLocation_BothProvidersFailing(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	c := NewGeoIPClientWithURLs(failing.Client(), failing.URL, failing.URL)

	_, err := c.CurrentLocation(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrNetwork)
}

func TestCurrentLocation_BadLocStringIsParseError(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"loc": "garbage"}`))
	}))
	defer fallback.Close()

	c := NewGeoIPClientWithURLs(primary.Client(), primary.URL, fallback.URL)

	_, err := c.CurrentLocation(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrParse)
}
