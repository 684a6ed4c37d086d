package outfit

import (
	"strings"

	"outfitbot/models"
)

const overrideFloor = -5

// ApplyMessageOverrides adjusts a reading with hints from a chat message so
// users can ask for a rainy, snowy or cold day outfit. Only the first
// matching hint applies.
func ApplyMessageOverrides(w models.WeatherReading, text string) models.WeatherReading {
	switch {
	case strings.Contains(text, "雨"):
		w.Text = "中雨"
	case strings.Contains(text, "雪"):
		w.Text = "小雪"
	case strings.Contains(text, "冷"), strings.Contains(text, "降温"):
		w.Temp = max(w.Temp-10, overrideFloor)
	}
	return w
}
