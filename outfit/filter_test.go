package outfit

import (
	"testing"

	"outfitbot/models"

	"github.com/stretchr/testify/assert"
)

func TestFilterByWarmthKeepsNeighbours(t *testing.T) {
	items := sampleWardrobe().Tops
	got := FilterByWarmth(items, 3)
	assert.Len(t, got, 2)
	assert.Equal(t, "针织开衫", got[0].Name)
	assert.Equal(t, "高领毛衣", got[1].Name)
}

func TestFilterByWarmthNeverEmptiesNonEmptyInput(t *testing.T) {
	items := []models.WardrobeItem{item("羽绒服", models.CategoryOuterwear, 5)}
	for target := 1; target <= 5; target++ {
		got := FilterByWarmth(items, target)
		assert.NotEmpty(t, got, "target %d", target)
	}
	assert.Equal(t, items, FilterByWarmth(items, 1))
}

func TestFilterByWarmthEmptyInput(t *testing.T) {
	assert.Empty(t, FilterByWarmth(nil, 3))
}

func TestFilterByStyleNilTagsIsIdentity(t *testing.T) {
	items := sampleWardrobe().Bottoms
	assert.Equal(t, items, FilterByStyle(items, nil))
	assert.Equal(t, items, FilterByStyle(items, []string{}))
}

func TestFilterByStyleMatchesAnyTag(t *testing.T) {
	items := sampleWardrobe().Tops
	got := FilterByStyle(items, []string{"可爱", "甜美"})
	assert.Len(t, got, 1)
	assert.Equal(t, "针织开衫", got[0].Name)
}

func TestFilterByStyleFallsBackWhenNothingMatches(t *testing.T) {
	items := sampleWardrobe().Shoes
	assert.Equal(t, items, FilterByStyle(items, []string{"甜酷"}))
}
