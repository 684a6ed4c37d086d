package outfit

import "outfitbot/models"

func SuggestWarmth(temp int) models.WarmthSuggestion {
	switch {
	case temp >= 28:
		return models.WarmthSuggestion{Level: 1, Text: "今天很热，穿轻薄透气的衣服"}
	case temp >= 20:
		return models.WarmthSuggestion{Level: 2, Text: "温度适宜，可以穿薄外套或开衫"}
	case temp >= 12:
		return models.WarmthSuggestion{Level: 3, Text: "有点凉，建议穿毛衣"}
	case temp >= 5:
		return models.WarmthSuggestion{Level: 4, Text: "天气冷了，需要厚毛衣加外套"}
	default:
		return models.WarmthSuggestion{Level: 5, Text: "很冷！记得穿羽绒服"}
	}
}
