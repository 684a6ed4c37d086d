package models

type Slot string

const (
	SlotOuterwear Slot = "outerwear"
	SlotTop       Slot = "top"
	SlotBottom    Slot = "bottom"
	SlotDress     Slot = "dress"
	SlotShoes     Slot = "shoes"
)

// SlotOrder is the order slots are listed in outfit text.
var SlotOrder = []Slot{SlotOuterwear, SlotTop, SlotBottom, SlotDress, SlotShoes}

type Outfit map[Slot]WardrobeItem

func (o Outfit) Has(slot Slot) bool {
	_, ok := o[slot]
	return ok
}

type Recommendation struct {
	Weather    WeatherReading   `json:"weather"`
	Suggestion WarmthSuggestion `json:"suggestion"`
	StyleTags  []string         `json:"style_tags"`
	Outfit     Outfit           `json:"outfit"`
	OutfitText string           `json:"outfit_text"`
	MoodText   string           `json:"mood_text"`
	Prompt     string           `json:"prompt"`
}

// Message is the text pushed alongside or instead of the image.
func (r Recommendation) Message() string {
	return r.OutfitText + "\n\n" + r.MoodText
}
