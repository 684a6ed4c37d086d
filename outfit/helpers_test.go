package outfit

import (
	"context"

	"outfitbot/models"
)

// scriptedRand replays fixed draws; Intn falls back to 0 once ints run out.
type scriptedRand struct {
	floats []float64
	ints   []int
	calls  []string
}

func (s *scriptedRand) Float64() float64 {
	s.calls = append(s.calls, "float")
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRand) Intn(n int) int {
	s.calls = append(s.calls, "intn")
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0] % n
	s.ints = s.ints[1:]
	return i
}

func item(name string, category models.Category, warmth int, style ...string) models.WardrobeItem {
	return models.WardrobeItem{
		Name:     name,
		Color:    "白色",
		Category: category,
		Warmth:   warmth,
		Style:    style,
		Prompt:   name + " prompt",
	}
}

func sampleWardrobe() models.Wardrobe {
	return models.Wardrobe{
		Tops: []models.WardrobeItem{
			item("白色T恤", models.CategoryTop, 1, "休闲"),
			item("针织开衫", models.CategoryTop, 3, "温柔", "可爱"),
			item("高领毛衣", models.CategoryTop, 4, "优雅"),
		},
		Bottoms: []models.WardrobeItem{
			item("牛仔短裤", models.CategoryBottom, 1, "休闲"),
			item("百褶裙", models.CategoryBottom, 3, "可爱"),
			item("羊毛阔腿裤", models.CategoryBottom, 4, "优雅"),
		},
		Outerwear: []models.WardrobeItem{
			item("风衣", models.CategoryOuterwear, 3, "优雅"),
			item("羽绒服", models.CategoryOuterwear, 5, "保暖"),
		},
		Dresses: []models.WardrobeItem{
			item("碎花连衣裙", models.CategoryDress, 2, "甜美"),
			item("毛呢连衣裙", models.CategoryDress, 4, "优雅"),
		},
		Shoes: []models.WardrobeItem{
			item("帆布鞋", models.CategoryShoes, 2, "休闲"),
			item("短靴", models.CategoryShoes, 4, "帅气"),
		},
	}
}

type staticWeather struct {
	reading models.WeatherReading
	err     error
	calls   int
}

func (s *staticWeather) Fetch(ctx context.Context) (models.WeatherReading, error) {
	s.calls++
	return s.reading, s.err
}

type staticWardrobe struct {
	wardrobe models.Wardrobe
	err      error
}

func (s staticWardrobe) Load(ctx context.Context) (models.Wardrobe, error) {
	return s.wardrobe, s.err
}
