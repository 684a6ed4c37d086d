package outfit

import (
	"fmt"
	"strings"

	"outfitbot/models"
)

var slotLabels = map[models.Slot]string{
	models.SlotOuterwear: "外套",
	models.SlotTop:       "上装",
	models.SlotBottom:    "下装",
	models.SlotDress:     "连衣裙",
	models.SlotShoes:     "鞋履",
}

var poses = []string{
	"one hand slightly touching hair, gentle head tilt",
	"hands naturally at sides, soft smile",
	"one hand on hip, confident pose",
	"holding a small bag, walking pose",
	"arms crossed casually, relaxed stance",
}

var (
	warmMoods = []string{
		"今天也要元气满满地出门呀 ☀️",
		"穿上喜欢的衣服，好心情自然来 💕",
		"新的一天，从精致穿搭开始 ✨",
		"今天的你一定很好看！💫",
	}
	coldMoods = []string{
		"降温了，记得把自己裹暖和一点 🧣",
		"天冷也要美美的出门呀 ❄️",
		"保暖第一，时髦第二 🧥",
		"冷冷的天气，暖暖的穿搭 💝",
	}
	rainMoods = []string{
		"记得带伞哦 🌂",
		"下雨天也要保持好心情 🌧️",
		"雨天穿搭小技巧：深色更耐脏 💧",
		"去踩踩落雪吧，踏碎烦恼哦 ❄️",
	}
)

const promptTemplate = "Keep this character's face, hair, facial expression, and body proportions exactly the same.\n" +
	"Change her outfit to: %s.\n" +
	"Natural relaxed pose, %s.\n" +
	"Background: %s.\n" +
	"Keep the same 3D doll aesthetic, full body shot showing the complete outfit including shoes, aspect ratio 3:4"

func WeatherSummary(w models.WeatherReading) string {
	return fmt.Sprintf("今日天气：%s %d°C", w.Text, w.Temp)
}

func ComposeOutfitText(o models.Outfit, w models.WeatherReading) string {
	lines := []string{WeatherSummary(w), "", "📍 今日穿搭："}
	for _, slot := range models.SlotOrder {
		item, ok := o[slot]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s：%s（%s）", slotLabels[slot], item.Name, item.Color))
	}
	return strings.Join(lines, "\n")
}

func WeatherBackground(text string, temp int) string {
	switch {
	case strings.Contains(text, "雨"):
		return "rainy city street with wet pavement and soft rain drops, cozy atmosphere, umbrellas in background"
	case strings.Contains(text, "雪"):
		return "snowy winter scene with gentle snowflakes falling, white snow covered ground, magical winter atmosphere"
	case strings.Contains(text, "阴"), strings.Contains(text, "多云"):
		return "overcast day with soft diffused light, cozy urban street scene"
	case temp >= 25:
		return "bright sunny summer day, warm golden sunlight, cheerful outdoor scene"
	case temp <= 5:
		return "cold winter day with crisp air, soft winter light, cozy atmosphere"
	default:
		return "pleasant day with soft natural lighting, gentle breeze, comfortable outdoor scene"
	}
}

// ComposePrompt builds the image prompt. One pose is drawn from rnd.
func ComposePrompt(rnd Random, o models.Outfit, w models.WeatherReading) string {
	var parts []string
	if item, ok := o[models.SlotOuterwear]; ok {
		parts = append(parts, item.Prompt)
	}
	if item, ok := o[models.SlotDress]; ok {
		parts = append(parts, item.Prompt)
	} else {
		if item, ok := o[models.SlotTop]; ok {
			parts = append(parts, item.Prompt)
		}
		if item, ok := o[models.SlotBottom]; ok {
			parts = append(parts, item.Prompt)
		}
	}
	if item, ok := o[models.SlotShoes]; ok {
		parts = append(parts, item.Prompt)
	}

	pose := Pick(rnd, poses)
	return fmt.Sprintf(promptTemplate, strings.Join(parts, ", "), pose, WeatherBackground(w.Text, w.Temp))
}

func ComposeMood(rnd Random, w models.WeatherReading) string {
	switch {
	case strings.Contains(w.Text, "雨"), strings.Contains(w.Text, "雪"):
		return Pick(rnd, rainMoods)
	case w.Temp < 10:
		return Pick(rnd, coldMoods)
	default:
		return Pick(rnd, warmMoods)
	}
}
