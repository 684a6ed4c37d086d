package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"outfitbot/config"
	"outfitbot/models"
	"outfitbot/services"

	"github.com/stretchr/testify/assert"
)

func TestPrintRecommendation(t *testing.T) {
	var buf bytes.Buffer
	printRecommendation(&buf, models.Recommendation{
		Weather:    models.WeatherReading{Temp: 8, FeelsLike: 6, Text: "晴"},
		Suggestion: models.WarmthSuggestion{Level: 4, Text: "天气冷了，需要厚毛衣加外套"},
		StyleTags:  []string{"可爱", "甜美"},
		OutfitText: "今日天气：晴 8°C",
		MoodText:   "出门记得带围巾",
		Prompt:     "a doll",
	})

	out := buf.String()
	assert.Contains(t, out, "📍 天气: 晴 8°C (体感 6°C)")
	assert.Contains(t, out, "🎀 风格: 可爱, 甜美")
	assert.Contains(t, out, "今日天气：晴 8°C\n\n出门记得带围巾")
	assert.Contains(t, out, "🎨 Prompt:\na doll")
}

func TestPreviewWeatherSourceLogsConfigError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	source := previewWeatherSource(func() (*config.Config, error) {
		return nil, errors.New("messenger.feishu.appId and appSecret are required")
	})
	assert.Nil(t, source)
	assert.Contains(t, buf.String(), "appSecret are required")
}

func TestPreviewWeatherSourceUsesConfig(t *testing.T) {
	source := previewWeatherSource(func() (*config.Config, error) {
		return &config.Config{Weather: config.WeatherConfig{APIKey: "k"}}, nil
	})
	assert.IsType(t, &services.QWeatherClient{}, source)
}
