package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryOuterwear Category = "outerwear"
	CategoryDress     Category = "dress"
	CategoryShoes     Category = "shoes"
)

var categoryPattern = regexp.MustCompile("^(top|bottom|outerwear|dress|shoes)$")

func ValidateCategory(fl validator.FieldLevel) bool {
	return categoryPattern.MatchString(fl.Field().String())
}

// StyleTags is stored as a JSON array so the same column works on postgres and sqlite.
type StyleTags []string

func (s *StyleTags) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported style tags type %T", value)
	}
	return json.Unmarshal(raw, s)
}

func (s StyleTags) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (StyleTags) GormDataType() string {
	return "text"
}

func (s StyleTags) Has(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

type WardrobeItem struct {
	Name     string    `json:"name" validate:"required"`
	Color    string    `json:"color"`
	Category Category  `json:"category" validate:"category"`
	Warmth   int       `json:"warmth" validate:"min=1,max=5"`
	Style    StyleTags `gorm:"type:text" json:"style"`
	Prompt   string    `gorm:"type:text" json:"prompt"`
}

// ClothingRecord is a wardrobe item persisted in the database.
type ClothingRecord struct {
	JsonModel
	WardrobeItem `gorm:"embedded"`
	Active       bool `gorm:"default:true" json:"active"`
}

type Wardrobe struct {
	Tops      []WardrobeItem `json:"tops"`
	Bottoms   []WardrobeItem `json:"bottoms"`
	Outerwear []WardrobeItem `json:"outerwear"`
	Dresses   []WardrobeItem `json:"dresses"`
	Shoes     []WardrobeItem `json:"shoes"`
}

// Add files the item under the section matching its category.
func (w *Wardrobe) Add(item WardrobeItem) {
	switch item.Category {
	case CategoryTop:
		w.Tops = append(w.Tops, item)
	case CategoryBottom:
		w.Bottoms = append(w.Bottoms, item)
	case CategoryOuterwear:
		w.Outerwear = append(w.Outerwear, item)
	case CategoryDress:
		w.Dresses = append(w.Dresses, item)
	case CategoryShoes:
		w.Shoes = append(w.Shoes, item)
	}
}

func (w Wardrobe) All() []WardrobeItem {
	all := make([]WardrobeItem, 0, w.Count())
	all = append(all, w.Tops...)
	all = append(all, w.Bottoms...)
	all = append(all, w.Outerwear...)
	all = append(all, w.Dresses...)
	all = append(all, w.Shoes...)
	return all
}

func (w Wardrobe) Count() int {
	return len(w.Tops) + len(w.Bottoms) + len(w.Outerwear) + len(w.Dresses) + len(w.Shoes)
}
