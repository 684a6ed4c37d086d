package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"outfitbot/assets"
	"outfitbot/models"

	"github.com/go-playground/validator"
	"gorm.io/gorm"
)

var ErrInvalidWardrobeItem = errors.New("invalid wardrobe item")

// catalog items without a warmth rating are treated as mid-season pieces
const defaultItemWarmth = 3

var wardrobeValidator = newWardrobeValidator()

func newWardrobeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("category", models.ValidateCategory)
	return v
}

// ParseWardrobe decodes a catalog document grouped by section and validates
// every entry. The section an item sits in decides its category.
func ParseWardrobe(data []byte) (models.Wardrobe, error) {
	var raw models.Wardrobe
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Wardrobe{}, fmt.Errorf("decode wardrobe: %w", err)
	}

	var wardrobe models.Wardrobe
	sections := []struct {
		category models.Category
		items    []models.WardrobeItem
	}{
		{models.CategoryTop, raw.Tops},
		{models.CategoryBottom, raw.Bottoms},
		{models.CategoryOuterwear, raw.Outerwear},
		{models.CategoryDress, raw.Dresses},
		{models.CategoryShoes, raw.Shoes},
	}
	for _, section := range sections {
		for _, item := range section.items {
			item.Category = section.category
			if err := normalizeItem(&item); err != nil {
				return models.Wardrobe{}, err
			}
			wardrobe.Add(item)
		}
	}
	return wardrobe, nil
}

func normalizeItem(item *models.WardrobeItem) error {
	if item.Warmth == 0 {
		item.Warmth = defaultItemWarmth
	}
	if err := wardrobeValidator.Struct(item); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidWardrobeItem, item.Name, err)
	}
	return nil
}

// JSONWardrobe serves the catalog from a JSON file, or from the embedded
// default catalog when Path is empty. The file is re-read on every Load so
// edits show up without a restart.
type JSONWardrobe struct {
	Path string
}

func NewEmbeddedWardrobe() *JSONWardrobe {
	return &JSONWardrobe{}
}

func NewFileWardrobe(path string) *JSONWardrobe {
	return &JSONWardrobe{Path: path}
}

func (w *JSONWardrobe) Load(ctx context.Context) (models.Wardrobe, error) {
	if w.Path == "" {
		return ParseWardrobe(assets.WardrobeJSON)
	}
	data, err := os.ReadFile(w.Path)
	if err != nil {
		return models.Wardrobe{}, fmt.Errorf("read wardrobe file: %w", err)
	}
	return ParseWardrobe(data)
}

// DBWardrobe serves active clothing records from the database.
type DBWardrobe struct {
	DB *gorm.DB
}

func (w DBWardrobe) Load(ctx context.Context) (models.Wardrobe, error) {
	var records []models.ClothingRecord
	if err := w.DB.WithContext(ctx).Where("active = ?", true).Order("id").Find(&records).Error; err != nil {
		return models.Wardrobe{}, fmt.Errorf("query wardrobe: %w", err)
	}
	var wardrobe models.Wardrobe
	for _, record := range records {
		wardrobe.Add(record.WardrobeItem)
	}
	return wardrobe, nil
}

// SeedWardrobe stores every catalog item as an active record. Items already
// present by name and category are skipped.
func SeedWardrobe(ctx context.Context, db *gorm.DB, wardrobe models.Wardrobe) (int, error) {
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range wardrobe.All() {
			var count int64
			if err := tx.Model(&models.ClothingRecord{}).
				Where("name = ? AND category = ?", item.Name, item.Category).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&models.ClothingRecord{WardrobeItem: item, Active: true}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed wardrobe: %w", err)
	}
	return created, nil
}
