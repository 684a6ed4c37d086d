package outfit

import "outfitbot/models"

const (
	dressChance         = 0.25
	outerwearFromWarmth = 3
)

// SelectOutfit picks one item per slot from the narrowed catalog.
// Random draws happen in a fixed order: dress coin, dress or top/bottom,
// outerwear, shoes.
func SelectOutfit(rnd Random, wardrobe models.Wardrobe, level int, styleTags []string) models.Outfit {
	narrow := func(items []models.WardrobeItem) []models.WardrobeItem {
		return FilterByStyle(FilterByWarmth(items, level), styleTags)
	}

	tops := narrow(wardrobe.Tops)
	bottoms := narrow(wardrobe.Bottoms)
	outerwear := narrow(wardrobe.Outerwear)
	dresses := narrow(wardrobe.Dresses)
	shoes := narrow(wardrobe.Shoes)

	outfit := models.Outfit{}
	if len(dresses) > 0 && rnd.Float64() < dressChance {
		outfit[models.SlotDress] = Pick(rnd, dresses)
	} else {
		if len(tops) > 0 {
			outfit[models.SlotTop] = Pick(rnd, tops)
		}
		if len(bottoms) > 0 {
			outfit[models.SlotBottom] = Pick(rnd, bottoms)
		}
	}

	if level >= outerwearFromWarmth && len(outerwear) > 0 {
		outfit[models.SlotOuterwear] = Pick(rnd, outerwear)
	}
	if len(shoes) > 0 {
		outfit[models.SlotShoes] = Pick(rnd, shoes)
	}
	return outfit
}
