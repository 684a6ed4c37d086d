package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"outfitbot/config"
	"outfitbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQWeatherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/weather/now", r.URL.Path)
		assert.Equal(t, "101010100", r.URL.Query().Get("location"))
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Write([]byte(`{"code":"200","now":{"temp":"3","feelsLike":"-1","text":"小雪","humidity":"80","windDir":"西北风"}}`))
	}))
	defer server.Close()

	client := NewQWeatherClient(config.WeatherConfig{BaseURL: server.URL, APIKey: "k", Location: "101010100"})
	reading, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.WeatherReading{Temp: 3, FeelsLike: -1, Text: "小雪", Humidity: 80, Wind: "西北风"}, reading)
}

func TestQWeatherFetchErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"401"}`))
	}))
	defer server.Close()

	client := NewQWeatherClient(config.WeatherConfig{BaseURL: server.URL, APIKey: "k", Location: "1"})
	_, err := client.Fetch(context.Background())
	assert.ErrorContains(t, err, "401")
}

func TestQWeatherFetchBadNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"200","now":{"temp":"warm","feelsLike":"1","text":"晴","humidity":"1","windDir":"北风"}}`))
	}))
	defer server.Close()

	client := NewQWeatherClient(config.WeatherConfig{BaseURL: server.URL, APIKey: "k", Location: "1"})
	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

func TestQWeatherFetchWithoutKey(t *testing.T) {
	client := NewQWeatherClient(config.WeatherConfig{Location: "1"})
	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

type countingWeather struct {
	calls   atomic.Int32
	reading models.WeatherReading
	err     error
}

func (c *countingWeather) Fetch(ctx context.Context) (models.WeatherReading, error) {
	c.calls.Add(1)
	return c.reading, c.err
}

func TestCachedWeatherSource(t *testing.T) {
	upstream := &countingWeather{reading: models.WeatherReading{Temp: 21, Text: "多云"}}
	cached, err := NewCachedWeatherSource(upstream, time.Minute)
	require.NoError(t, err)

	reading, err := cached.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21, reading.Temp)
	assert.GreaterOrEqual(t, upstream.calls.Load(), int32(1))
}

func TestCachedWeatherSourcePropagatesError(t *testing.T) {
	upstream := &countingWeather{err: errors.New("timeout")}
	cached, err := NewCachedWeatherSource(upstream, time.Minute)
	require.NoError(t, err)

	_, err = cached.Fetch(context.Background())
	assert.Error(t, err)
}
