package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"outfitbot/config"
	"outfitbot/models"
)

const defaultQWeatherBaseURL = "https://devapi.qweather.com"

// QWeatherClient reads current conditions from the QWeather v7 "now" endpoint.
type QWeatherClient struct {
	BaseURL  string
	APIKey   string
	Location string
	HTTP     *http.Client
}

func NewQWeatherClient(cfg config.WeatherConfig) *QWeatherClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &QWeatherClient{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Location: cfg.Location,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type qweatherNowResponse struct {
	Code string `json:"code"`
	Now  struct {
		Temp      string `json:"temp"`
		FeelsLike string `json:"feelsLike"`
		Text      string `json:"text"`
		Humidity  string `json:"humidity"`
		WindDir   string `json:"windDir"`
	} `json:"now"`
}

func (q *QWeatherClient) Fetch(ctx context.Context) (models.WeatherReading, error) {
	if q.APIKey == "" {
		return models.WeatherReading{}, fmt.Errorf("qweather api key is not configured")
	}
	base := q.BaseURL
	if base == "" {
		base = defaultQWeatherBaseURL
	}
	params := url.Values{}
	params.Set("location", q.Location)
	params.Set("key", q.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/v7/weather/now?"+params.Encode(), nil)
	if err != nil {
		return models.WeatherReading{}, err
	}
	client := q.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.WeatherReading{}, fmt.Errorf("qweather request: %w", err)
	}
	defer resp.Body.Close()

	var body qweatherNowResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.WeatherReading{}, fmt.Errorf("decode qweather response: %w", err)
	}
	if body.Code != "200" {
		return models.WeatherReading{}, fmt.Errorf("qweather api error code %s", body.Code)
	}

	reading := models.WeatherReading{Text: body.Now.Text, Wind: body.Now.WindDir}
	for _, field := range []struct {
		raw string
		dst *int
	}{
		{body.Now.Temp, &reading.Temp},
		{body.Now.FeelsLike, &reading.FeelsLike},
		{body.Now.Humidity, &reading.Humidity},
	} {
		n, err := strconv.Atoi(field.raw)
		if err != nil {
			return models.WeatherReading{}, fmt.Errorf("qweather numeric field %q: %w", field.raw, err)
		}
		*field.dst = n
	}
	return reading, nil
}
