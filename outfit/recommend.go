package outfit

import (
	"context"
	"fmt"
	"log"

	"outfitbot/models"
)

type WeatherSource interface {
	Fetch(ctx context.Context) (models.WeatherReading, error)
}

type WardrobeStore interface {
	Load(ctx context.Context) (models.Wardrobe, error)
}

// MockWeather builds a plausible reading around temp.
func MockWeather(temp int, text string) models.WeatherReading {
	return models.WeatherReading{
		Temp:      temp,
		FeelsLike: temp - 2,
		Text:      text,
		Humidity:  60,
		Wind:      "北风",
	}
}

func FallbackWeather() models.WeatherReading {
	return MockWeather(15, "晴")
}

type Recommender struct {
	Weather  WeatherSource
	Wardrobe WardrobeStore
	Rand     Random
}

func NewRecommender(weather WeatherSource, wardrobe WardrobeStore, rnd Random) *Recommender {
	if rnd == nil {
		rnd = NewTimeSeededRandom()
	}
	return &Recommender{Weather: weather, Wardrobe: wardrobe, Rand: rnd}
}

// CurrentWeather never fails: any fetch problem yields FallbackWeather.
func (r *Recommender) CurrentWeather(ctx context.Context) models.WeatherReading {
	if r.Weather == nil {
		return FallbackWeather()
	}
	reading, err := r.Weather.Fetch(ctx)
	if err != nil {
		log.Printf("[Outfit] weather fetch failed, using fallback: %v", err)
		return FallbackWeather()
	}
	return reading
}

// Build produces a recommendation. When weather is nil the current reading
// is fetched from the weather source.
func (r *Recommender) Build(ctx context.Context, weather *models.WeatherReading, styleRequest string) (models.Recommendation, error) {
	var reading models.WeatherReading
	if weather != nil {
		reading = *weather
	} else {
		reading = r.CurrentWeather(ctx)
	}

	suggestion := SuggestWarmth(reading.Temp)
	tags := ParseStyleRequest(styleRequest)

	wardrobe, err := r.Wardrobe.Load(ctx)
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("load wardrobe: %w", err)
	}

	chosen := SelectOutfit(r.Rand, wardrobe, suggestion.Level, tags)
	outfitText := ComposeOutfitText(chosen, reading)
	mood := ComposeMood(r.Rand, reading)
	prompt := ComposePrompt(r.Rand, chosen, reading)

	return models.Recommendation{
		Weather:    reading,
		Suggestion: suggestion,
		StyleTags:  tags,
		Outfit:     chosen,
		OutfitText: outfitText,
		MoodText:   mood,
		Prompt:     prompt,
	}, nil
}
