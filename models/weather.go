package models

type WeatherReading struct {
	Temp      int    `json:"temp"`
	FeelsLike int    `json:"feels_like"`
	Text      string `json:"text"`
	Humidity  int    `json:"humidity"`
	Wind      string `json:"wind"`
}

type WarmthSuggestion struct {
	Level int    `json:"warmth"`
	Text  string `json:"suggestion"`
}
