package outfit

import "outfitbot/models"

// FilterByWarmth keeps items within one warmth step of target.
// When nothing qualifies the input is returned unchanged.
func FilterByWarmth(items []models.WardrobeItem, target int) []models.WardrobeItem {
	filtered := make([]models.WardrobeItem, 0, len(items))
	for _, item := range items {
		diff := item.Warmth - target
		if diff >= -1 && diff <= 1 {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		return items
	}
	return filtered
}

// FilterByStyle keeps items sharing at least one tag with tags.
// Empty tags, or no match at all, return the input unchanged.
func FilterByStyle(items []models.WardrobeItem, tags []string) []models.WardrobeItem {
	if len(tags) == 0 {
		return items
	}
	filtered := make([]models.WardrobeItem, 0, len(items))
	for _, item := range items {
		for _, tag := range tags {
			if item.Style.Has(tag) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return items
	}
	return filtered
}
